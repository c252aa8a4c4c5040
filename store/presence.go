// Package store tracks player presence outside the game engine. The engine
// keeps its own in-memory activity clocks for kicking idle players; this
// store is the transport-facing record of last-seen times, so presence can
// be shared or inspected independently of a single process.
package store

import (
	"context"
	"sync"
	"time"
)

// PresenceStore records heartbeat timestamps per player per table.
type PresenceStore interface {
	Touch(ctx context.Context, tableID, playerID string) error
	LastSeen(ctx context.Context, tableID, playerID string) (time.Time, error)
	Forget(ctx context.Context, tableID, playerID string) error
}

// ErrNotSeen is returned when no heartbeat was ever recorded.
type notSeenError struct{}

func (notSeenError) Error() string { return "player has no recorded heartbeat" }

var ErrNotSeen error = notSeenError{}

type memoryKey struct {
	tableID  string
	playerID string
}

// MemoryPresence is the default single-process store.
type MemoryPresence struct {
	mu   sync.RWMutex
	seen map[memoryKey]time.Time
}

func NewMemoryPresence() *MemoryPresence {
	return &MemoryPresence{seen: make(map[memoryKey]time.Time)}
}

func (m *MemoryPresence) Touch(_ context.Context, tableID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[memoryKey{tableID, playerID}] = time.Now()
	return nil
}

func (m *MemoryPresence) LastSeen(_ context.Context, tableID, playerID string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	at, ok := m.seen[memoryKey{tableID, playerID}]
	if !ok {
		return time.Time{}, ErrNotSeen
	}
	return at, nil
}

func (m *MemoryPresence) Forget(_ context.Context, tableID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, memoryKey{tableID, playerID})
	return nil
}
