package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RebelsBlocks/wars-of-cards-backend/models"
)

// Game is the turn/phase controller for one table. All mutating inputs — a
// player's transport call, a scheduler expiry, the inactivity sweep — are
// serialized behind mu; timer callbacks re-enter through the locked methods
// and re-validate state before acting, so a cancel racing a fire resolves
// safely.
type Game struct {
	table     *models.Table
	rules     Rules
	scheduler *Scheduler
	emit      func(models.Event)
	log       *logrus.Entry
	mu        sync.Mutex
}

func NewGame(table *models.Table, rules Rules, scheduler *Scheduler, emit func(models.Event), logger *logrus.Logger) *Game {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	g := &Game{
		table:     table,
		rules:     rules,
		scheduler: scheduler,
		emit:      emit,
		log:       logger.WithField("table", table.ID),
	}
	// Draws only happen under the table lock, so the reshuffle callback is
	// already serialized.
	table.Shoe.OnReshuffle(func() {
		g.notifyLocked("cut card reached, shoe reshuffled")
	})
	return g
}

func (g *Game) TableID() string { return g.table.ID }

// Snapshot returns the public view of the table.
func (g *Game) Snapshot() models.TableSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.Snapshot()
}

// SnapshotFor returns the view for one player, own hole cards revealed.
func (g *Game) SnapshotFor(playerID string) models.TableSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.SnapshotFor(playerID)
}

// SubmitAction applies one player action if the table is in an action phase
// and it is the caller's turn.
func (g *Game) SubmitAction(playerID string, action models.Action, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.table.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Touch()
	return g.applyActionLocked(p, action, amount)
}

func (g *Game) applyActionLocked(p *models.Player, action models.Action, amount int) error {
	t := g.table
	if t.Phase != models.PhasePlaying {
		return ErrWrongPhase
	}
	actor := t.CurrentActor()
	if actor == nil || actor.ID != p.ID {
		return ErrNotYourTurn
	}
	if err := g.rules.Apply(t, p, action, amount); err != nil {
		return err
	}
	t.LastActionAt = time.Now()
	g.scheduler.Cancel(g.key(TimerActorTurn, p.ID))
	g.advanceLocked()
	return nil
}

// advanceLocked re-derives the next actor from scratch — never assumes the
// previous one is still valid — and either hands them the turn or resolves
// the round.
func (g *Game) advanceLocked() {
	idx, ok := g.rules.Advance(g.table)
	if !ok {
		g.resolveLocked()
		return
	}
	g.beginTurnLocked(idx)
}

func (g *Game) beginTurnLocked(idx int) {
	t := g.table
	t.CurrentActorIndex = idx
	t.TurnSeq++
	t.TurnStartedAt = time.Now()

	actor := t.Players[idx]
	seq := t.TurnSeq
	actorID := actor.ID
	g.scheduler.Start(g.key(TimerActorTurn, actorID), t.Config.ActionTimeout, func() {
		g.handleActorTimeout(actorID, seq)
	})
	g.broadcastLocked()
}

// handleActorTimeout fires when an actor's turn timer expires. The timer may
// be stale — the actor may have already acted, or left — so everything is
// re-validated under the lock before the default action is applied.
func (g *Game) handleActorTimeout(playerID string, seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.table
	if t.Phase != models.PhasePlaying || t.TurnSeq != seq {
		return
	}
	actor := t.CurrentActor()
	if actor == nil || actor.ID != playerID {
		return
	}

	action, amount := g.rules.DefaultAction(t, actor)
	g.log.WithFields(logrus.Fields{"player": actor.ID, "action": action}).Info("turn timed out")
	g.notifyLocked(fmt.Sprintf("%s took too long, auto-%s", actor.Name, action))

	if err := g.applyActionLocked(actor, action, amount); err != nil {
		// The default action must never stall the table; advance regardless.
		g.log.WithError(err).Warn("default action rejected")
		g.advanceLocked()
	}
}

// startRoundLocked begins a new round: promotes waiting players, routes
// broke players into the buy-in flow, stakes and deals, and opens the first
// turn. Falls back to WaitingForPlayers when too few players can be dealt.
func (g *Game) startRoundLocked() {
	t := g.table

	for _, p := range t.Players {
		switch p.State {
		case models.StateObserving, models.StateSittingOut, models.StateWaitingNextRound:
			p.State = models.StateActive
		}
		p.ResetForRound()
	}
	if t.Dealer != nil {
		t.Dealer.ResetForRound()
	}
	t.CommunityCards = t.CommunityCards[:0]
	t.Pot = 0
	t.CurrentBet = 0
	t.BettingRound = ""
	t.CurrentActorIndex = -1

	stake := g.rules.MinStake(t)
	for _, p := range t.Players {
		if p.State != models.StateActive || p.Balance >= stake {
			continue
		}
		p.State = models.StateAwaitingBuyIn
		pid := p.ID
		g.emitEvent(models.EventBuyInRequired, models.BuyInRequiredEvent{
			PlayerID:  pid,
			MinBuyIn:  t.Config.MinBuyIn,
			TimeoutMs: t.Config.BuyInTimeout.Milliseconds(),
		})
		g.scheduler.Start(g.key(TimerBuyIn, pid), t.Config.BuyInTimeout, func() {
			g.handleBuyInTimeout(pid)
		})
	}

	if t.ActiveCount() < g.rules.MinPlayers() {
		t.Phase = models.PhaseWaiting
		if t.SeatedCount() > 0 {
			g.armStartCountdownLocked()
		}
		g.broadcastLocked()
		return
	}

	t.Phase = models.PhasePlaying
	if err := g.rules.BeginRound(t); err != nil {
		g.log.WithError(err).Error("failed to begin round")
		t.ResetToWaiting()
		g.broadcastLocked()
		return
	}
	g.log.WithField("variant", t.Variant).Info("round started")
	g.advanceLocked()
}

// resolveLocked runs the payout resolver and schedules the round break.
// Cleanup is best-effort: a panic inside resolution is logged and must not
// leave timers running.
func (g *Game) resolveLocked() {
	t := g.table

	for _, p := range t.Players {
		g.scheduler.Cancel(g.key(TimerActorTurn, p.ID))
	}

	var outcomes []models.RoundOutcome
	func() {
		defer func() {
			if r := recover(); r != nil {
				g.log.WithField("panic", r).Error("round resolution panicked")
			}
		}()
		outcomes = g.rules.Resolve(t)
	}()

	t.Phase = models.PhaseResolution
	t.CurrentActorIndex = -1
	t.TurnSeq++

	for _, o := range outcomes {
		if o.Payout > 0 {
			if p := t.PlayerByID(o.PlayerID); p != nil {
				g.notifyLocked(fmt.Sprintf("%s: %s, paid %d", p.Name, o.Result, o.Payout))
			}
		}
	}
	g.broadcastLocked()

	g.scheduler.Start(g.key(TimerRoundBreak, ""), t.Config.BreakDelay, g.handleBreakExpiry)
}

func (g *Game) handleBreakExpiry() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.table.Phase != models.PhaseResolution {
		return
	}
	if g.table.SeatedCount() == 0 {
		g.table.ResetToWaiting()
		g.broadcastLocked()
		return
	}
	g.startRoundLocked()
}

func (g *Game) armStartCountdownLocked() {
	g.scheduler.Start(g.key(TimerGameStart, ""), g.table.Config.StartDelay, g.handleGameStartExpiry)
}

func (g *Game) handleGameStartExpiry() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.table.Phase != models.PhaseWaiting || g.table.SeatedCount() == 0 {
		return
	}
	g.startRoundLocked()
}

// Close cancels every timer the table owns. Called when the manager
// destroys the table.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scheduler.CancelTable(g.table.ID)
}

func (g *Game) key(kind TimerKind, ownerID string) TimerKey {
	return TimerKey{TableID: g.table.ID, OwnerID: ownerID, Kind: kind}
}

func (g *Game) emitEvent(kind models.EventType, data interface{}) {
	if g.emit == nil {
		return
	}
	g.emit(models.Event{Type: kind, TableID: g.table.ID, Data: data})
}

func (g *Game) notifyLocked(text string) {
	g.emitEvent(models.EventNotification, models.NotificationEvent{Text: text})
}

// broadcastLocked pushes a sanitized snapshot outward; the transport layer
// fans it out to every seated socket.
func (g *Game) broadcastLocked() {
	g.emitEvent(models.EventStateChanged, g.table.Snapshot())
}
