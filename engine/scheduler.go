package engine

import (
	"sync"
	"time"
)

type TimerKind string

const (
	TimerGameStart  TimerKind = "gameStart"
	TimerActorTurn  TimerKind = "actorTurn"
	TimerRoundBreak TimerKind = "roundBreak"
	TimerBuyIn      TimerKind = "buyIn"
)

// TimerKey identifies a timer by table, owner and kind. OwnerID is a player
// ID for actor and buy-in timers and empty for table-level timers. Starting
// a timer replaces any prior timer with the same key.
type TimerKey struct {
	TableID string
	OwnerID string
	Kind    TimerKind
}

type scheduledTimer struct {
	timer    *time.Timer
	deadline time.Time
	total    time.Duration
	done     chan struct{}
	once     sync.Once
}

func (st *scheduledTimer) stop() {
	st.timer.Stop()
	st.once.Do(func() { close(st.done) })
}

// Scheduler owns every time-bounded phase of every table. Expiry callbacks
// run on the timer goroutine and are expected to re-validate table state
// under the table lock before acting; a cancel racing a fire is resolved by
// that re-validation, not by the scheduler.
//
// Tick emission is decoupled from expiry: each running timer reports its
// remaining time once per tick interval so clients can render countdowns.
type Scheduler struct {
	mu        sync.Mutex
	timers    map[TimerKey]*scheduledTimer
	tickEvery time.Duration
	onTick    func(key TimerKey, remaining, total time.Duration)
}

func NewScheduler(tickEvery time.Duration, onTick func(key TimerKey, remaining, total time.Duration)) *Scheduler {
	if tickEvery <= 0 {
		tickEvery = time.Second
	}
	return &Scheduler{
		timers:    make(map[TimerKey]*scheduledTimer),
		tickEvery: tickEvery,
		onTick:    onTick,
	}
}

// Start arms a timer for key, replacing any existing timer with the same
// key. onExpire fires once after d unless the timer is cancelled first.
func (s *Scheduler) Start(key TimerKey, d time.Duration, onExpire func()) {
	st := &scheduledTimer{
		deadline: time.Now().Add(d),
		total:    d,
		done:     make(chan struct{}),
	}
	st.timer = time.AfterFunc(d, func() {
		s.finish(key, st)
		if onExpire != nil {
			onExpire()
		}
	})

	s.mu.Lock()
	if old, ok := s.timers[key]; ok {
		old.stop()
	}
	s.timers[key] = st
	s.mu.Unlock()

	if s.onTick != nil {
		go s.tickLoop(key, st)
	}
}

// finish removes the entry for an expired timer, unless it was already
// replaced by a newer one.
func (s *Scheduler) finish(key TimerKey, st *scheduledTimer) {
	s.mu.Lock()
	if cur, ok := s.timers[key]; ok && cur == st {
		delete(s.timers, key)
	}
	s.mu.Unlock()
	st.once.Do(func() { close(st.done) })
}

func (s *Scheduler) tickLoop(key TimerKey, st *scheduledTimer) {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-st.done:
			return
		case <-ticker.C:
			remaining := time.Until(st.deadline)
			if remaining < 0 {
				remaining = 0
			}
			s.onTick(key, remaining, st.total)
		}
	}
}

// Cancel stops the timer for key if one is running.
func (s *Scheduler) Cancel(key TimerKey) {
	s.mu.Lock()
	st, ok := s.timers[key]
	if ok {
		delete(s.timers, key)
	}
	s.mu.Unlock()
	if ok {
		st.stop()
	}
}

// CancelOwner stops every timer a single player owns at a table.
func (s *Scheduler) CancelOwner(tableID, ownerID string) {
	s.cancelWhere(func(k TimerKey) bool {
		return k.TableID == tableID && k.OwnerID == ownerID
	})
}

// CancelTable stops every timer belonging to a table.
func (s *Scheduler) CancelTable(tableID string) {
	s.cancelWhere(func(k TimerKey) bool { return k.TableID == tableID })
}

// Stop cancels everything; used on shutdown.
func (s *Scheduler) Stop() {
	s.cancelWhere(func(TimerKey) bool { return true })
}

func (s *Scheduler) cancelWhere(match func(TimerKey) bool) {
	s.mu.Lock()
	var stopped []*scheduledTimer
	for k, st := range s.timers {
		if match(k) {
			stopped = append(stopped, st)
			delete(s.timers, k)
		}
	}
	s.mu.Unlock()
	for _, st := range stopped {
		st.stop()
	}
}

// Active reports whether a timer is currently armed for key.
func (s *Scheduler) Active(key TimerKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}
