package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RebelsBlocks/wars-of-cards-backend/models"
)

const (
	eventBuffer = 256
	sweepEvery  = 30 * time.Second
	// emptyTableGrace is how long a table may sit in WaitingForPlayers with
	// zero seated players before the sweep destroys it.
	emptyTableGrace = 5 * time.Minute
)

// TableManager owns every live table. Tables are fully independent of each
// other: each Game serializes its own mutations, and the manager only maps
// IDs to games. One shared Scheduler holds all timers, keyed by table,
// owner and kind.
type TableManager struct {
	mu        sync.RWMutex
	tables    map[string]*Game
	scheduler *Scheduler
	events    chan models.Event
	log       *logrus.Logger
	done      chan struct{}
	wg        sync.WaitGroup
}

func NewTableManager(logger *logrus.Logger) *TableManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	tm := &TableManager{
		tables: make(map[string]*Game),
		events: make(chan models.Event, eventBuffer),
		log:    logger,
		done:   make(chan struct{}),
	}
	tm.scheduler = NewScheduler(time.Second, func(key TimerKey, remaining, total time.Duration) {
		tm.publish(models.Event{
			Type:    models.EventTimeUpdate,
			TableID: key.TableID,
			Data: models.TimeUpdateEvent{
				Kind:        string(key.Kind),
				RemainingMs: remaining.Milliseconds(),
				TotalMs:     total.Milliseconds(),
				ActorID:     key.OwnerID,
			},
		})
	})
	return tm
}

// Events is the stream the transport collaborator consumes.
func (tm *TableManager) Events() <-chan models.Event {
	return tm.events
}

// publish never blocks the engine: if the transport cannot keep up, ticks
// and snapshots are dropped, not queued unboundedly.
func (tm *TableManager) publish(e models.Event) {
	select {
	case tm.events <- e:
	default:
		tm.log.WithField("event", e.Type).Warn("event buffer full, dropping")
	}
}

// CreateTable builds a new table for a variant. Zero-valued config fields
// fall back to the variant defaults.
func (tm *TableManager) CreateTable(config models.TableConfig) (models.TableSnapshot, error) {
	defaults := models.DefaultConfig(config.Variant)
	if config.Variant != models.VariantPoker {
		config.Variant = models.VariantBlackjack
	}
	if config.MaxSeats <= 0 || config.MaxSeats > models.MaxSeats {
		config.MaxSeats = defaults.MaxSeats
	}
	if config.MinBet <= 0 {
		config.MinBet = defaults.MinBet
	}
	if config.SmallBlind <= 0 {
		config.SmallBlind = defaults.SmallBlind
	}
	if config.BigBlind <= 0 {
		config.BigBlind = defaults.BigBlind
	}
	if config.MinBuyIn <= 0 {
		config.MinBuyIn = defaults.MinBuyIn
	}
	if config.StartDelay <= 0 {
		config.StartDelay = defaults.StartDelay
	}
	if config.ActionTimeout <= 0 {
		config.ActionTimeout = defaults.ActionTimeout
	}
	if config.BreakDelay <= 0 {
		config.BreakDelay = defaults.BreakDelay
	}
	if config.BuyInTimeout <= 0 {
		config.BuyInTimeout = defaults.BuyInTimeout
	}
	if config.InactivityTimeout <= 0 {
		config.InactivityTimeout = defaults.InactivityTimeout
	}

	table := models.NewTable(uuid.NewString(), config)
	game := NewGame(table, RulesFor(config.Variant), tm.scheduler, tm.publish, tm.log)

	tm.mu.Lock()
	tm.tables[table.ID] = game
	tm.mu.Unlock()

	tm.log.WithFields(logrus.Fields{"table": table.ID, "variant": config.Variant}).Info("table created")
	return game.Snapshot(), nil
}

func (tm *TableManager) game(tableID string) (*Game, error) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	g, ok := tm.tables[tableID]
	if !ok {
		return nil, ErrTableNotFound
	}
	return g, nil
}

func (tm *TableManager) JoinSeat(tableID, name string, seat, buyIn int) (string, error) {
	g, err := tm.game(tableID)
	if err != nil {
		return "", err
	}
	return g.Join(name, seat, buyIn)
}

func (tm *TableManager) LeaveSeat(tableID, playerID string) error {
	g, err := tm.game(tableID)
	if err != nil {
		return err
	}
	return g.Leave(playerID)
}

func (tm *TableManager) SubmitAction(tableID, playerID string, action models.Action, amount int) (models.TableSnapshot, error) {
	g, err := tm.game(tableID)
	if err != nil {
		return models.TableSnapshot{}, err
	}
	if err := g.SubmitAction(playerID, action, amount); err != nil {
		return models.TableSnapshot{}, err
	}
	return g.SnapshotFor(playerID), nil
}

func (tm *TableManager) RequestBuyIn(tableID, playerID string, amount int) error {
	g, err := tm.game(tableID)
	if err != nil {
		return err
	}
	return g.RequestBuyIn(playerID, amount)
}

func (tm *TableManager) DeclineBuyIn(tableID, playerID string) error {
	g, err := tm.game(tableID)
	if err != nil {
		return err
	}
	return g.DeclineBuyIn(playerID)
}

// GetState returns the table view for viewerID; an empty viewerID yields the
// public view with every face-down card masked.
func (tm *TableManager) GetState(tableID, viewerID string) (models.TableSnapshot, error) {
	g, err := tm.game(tableID)
	if err != nil {
		return models.TableSnapshot{}, err
	}
	return g.SnapshotFor(viewerID), nil
}

func (tm *TableManager) MarkActivity(tableID, playerID string) error {
	g, err := tm.game(tableID)
	if err != nil {
		return err
	}
	return g.MarkActivity(playerID)
}

func (tm *TableManager) ListTables() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	ids := make([]string, 0, len(tm.tables))
	for id := range tm.tables {
		ids = append(ids, id)
	}
	return ids
}

// DestroyTable tears a table down cooperatively: timers cancelled first,
// then the registry entry, then the outward tableEnded event.
func (tm *TableManager) DestroyTable(tableID string) error {
	tm.mu.Lock()
	g, ok := tm.tables[tableID]
	if ok {
		delete(tm.tables, tableID)
	}
	tm.mu.Unlock()

	if !ok {
		return ErrTableNotFound
	}
	g.Close()
	tm.publish(models.Event{Type: models.EventTableEnded, TableID: tableID})
	tm.log.WithField("table", tableID).Info("table destroyed")
	return nil
}

// Start launches the periodic inactivity sweep.
func (tm *TableManager) Start() {
	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-tm.done:
				return
			case now := <-ticker.C:
				tm.sweep(now)
			}
		}
	}()
}

func (tm *TableManager) sweep(now time.Time) {
	tm.mu.RLock()
	games := make([]*Game, 0, len(tm.tables))
	for _, g := range tm.tables {
		games = append(games, g)
	}
	tm.mu.RUnlock()

	for _, g := range games {
		if kicked := g.SweepInactive(now); kicked > 0 {
			tm.log.WithFields(logrus.Fields{"table": g.TableID(), "kicked": kicked}).Info("inactivity sweep")
		}
		if g.EmptyFor(emptyTableGrace, now) {
			tm.DestroyTable(g.TableID())
		}
	}
}

// Stop halts the sweep and cancels every timer. The event channel is left
// open; consumers drain and observe quiescence.
func (tm *TableManager) Stop() {
	close(tm.done)
	tm.wg.Wait()
	tm.scheduler.Stop()
}
