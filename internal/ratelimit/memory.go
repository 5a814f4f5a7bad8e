package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryCounterStore is an in-process CounterStore. It backs tests and
// single-process deployments that do not need the persistent counter table.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

type memoryEntry struct {
	count     int
	expiresAt time.Time
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		entries: make(map[string]memoryEntry),
		Now:     time.Now,
	}
}

// Count returns the live counter for key. Expired entries are deleted and
// reported absent.
func (m *MemoryCounterStore) Count(_ context.Context, key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return 0, false, nil
	}
	if m.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return 0, false, nil
	}
	return entry.count, true, nil
}

// SetCount stores n under key with the given time-to-live.
func (m *MemoryCounterStore) SetCount(_ context.Context, key string, n int, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{count: n, expiresAt: m.Now().Add(ttl)}
	return nil
}
