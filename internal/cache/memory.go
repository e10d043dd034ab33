package cache

import (
	"context"
	"sync"
	"time"

	"github.com/otog-org/otog-server/internal/scoreboard"
	"golang.org/x/sync/singleflight"
)

// Memory caches snapshots in process with a TTL.
type Memory struct {
	loader Loader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu      sync.RWMutex
	entries map[uint]memoryEntry
	// gens is bumped on Invalidate so that a load started earlier does not
	// store its result.
	gens map[uint]uint64
}

type memoryEntry struct {
	snapshot  scoreboard.Snapshot
	expiresAt time.Time
}

func NewMemory(loader Loader, ttl time.Duration) *Memory {
	return &Memory{
		loader:  loader,
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[uint]memoryEntry),
		gens:    make(map[uint]uint64),
	}
}

func (m *Memory) lookup(contestID uint) (scoreboard.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[contestID]
	if !ok || !entry.expiresAt.After(m.clock()) {
		return scoreboard.Snapshot{}, false
	}
	return entry.snapshot, true
}

func (m *Memory) Get(ctx context.Context, contestID uint) (scoreboard.Snapshot, error) {
	if snapshot, ok := m.lookup(contestID); ok {
		return snapshot, nil
	}

	result, err, _ := m.sf.Do(flightKey(contestID), func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if snapshot, ok := m.lookup(contestID); ok {
			return snapshot, nil
		}

		m.mu.RLock()
		gen := m.gens[contestID]
		m.mu.RUnlock()

		// Callers share this load, so one caller giving up must not fail the rest.
		snapshot, err := m.loader(context.WithoutCancel(ctx), contestID)
		if err != nil {
			return scoreboard.Snapshot{}, err
		}

		m.mu.Lock()
		if m.gens[contestID] == gen {
			m.entries[contestID] = memoryEntry{snapshot: snapshot, expiresAt: m.clock().Add(m.ttl)}
		}
		m.mu.Unlock()
		return snapshot, nil
	})
	if err != nil {
		return scoreboard.Snapshot{}, err
	}
	return result.(scoreboard.Snapshot), nil
}

func (m *Memory) Invalidate(_ context.Context, contestID uint) error {
	m.mu.Lock()
	delete(m.entries, contestID)
	m.gens[contestID]++
	m.mu.Unlock()
	m.sf.Forget(flightKey(contestID))
	return nil
}
