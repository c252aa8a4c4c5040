package engine

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RebelsBlocks/wars-of-cards-backend/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// eventSink collects engine events for assertions.
type eventSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *eventSink) collect(e models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *eventSink) ofType(kind models.EventType) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for _, e := range s.events {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// testConfig uses hour-long timers so nothing fires on its own; expiry
// handlers are invoked directly where a test needs them.
func testConfig(variant models.GameVariant) models.TableConfig {
	cfg := models.DefaultConfig(variant)
	cfg.StartDelay = time.Hour
	cfg.ActionTimeout = time.Hour
	cfg.BreakDelay = time.Hour
	cfg.BuyInTimeout = time.Hour
	return cfg
}

func newTestGame(cfg models.TableConfig) (*Game, *eventSink) {
	sink := &eventSink{}
	table := models.NewTable("t-test", cfg)
	g := NewGame(table, RulesFor(cfg.Variant), NewScheduler(time.Hour, nil), sink.collect, quietLogger())
	return g, sink
}

// seatPlayer adds a player directly to a bare table, bypassing the join flow.
func seatPlayer(t *models.Table, id string, seat, balance int) *models.Player {
	p := models.NewPlayer(id, id, seat, balance)
	t.Players = append(t.Players, p)
	t.OccupiedSeats[seat] = true
	return p
}
