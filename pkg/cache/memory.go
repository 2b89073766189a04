package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	entry      Entry
	insertedAt time.Time
	expiresAt  time.Time
}

// MemoryBackend is an in-process TTL store. When full it first drops
// expired entries, then the oldest insertion.
type MemoryBackend struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int

	// now is swappable so tests can simulate expiry without sleeping.
	now func() time.Time
}

// NewMemoryBackend creates a memory store holding at most maxEntries items
// (0 means unbounded).
func NewMemoryBackend(maxEntries int) *MemoryBackend {
	return &MemoryBackend{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.RLock()
	stored, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return Entry{}, false, nil
	}
	if m.now().After(stored.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return Entry{}, false, nil
	}
	return stored.entry, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		if _, exists := m.entries[key]; !exists {
			m.evictLocked(now)
		}
	}
	m.entries[key] = memoryEntry{entry: entry, insertedAt: now, expiresAt: now.Add(ttl)}
	return nil
}

// evictLocked frees one slot: expired entries go first, then the oldest.
func (m *MemoryBackend) evictLocked(now time.Time) {
	var oldestKey string
	var oldestAt time.Time
	for key, stored := range m.entries {
		if now.After(stored.expiresAt) {
			delete(m.entries, key)
			return
		}
		if oldestKey == "" || stored.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = stored.insertedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}
