package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

type memoryEntry struct {
	entry  Entry
	expiry time.Time
}

// memoryStore implements a Store held in process memory.
type memoryStore struct {
	mu              sync.RWMutex
	entries         map[string]memoryEntry
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func newMemory(opts Options) *memoryStore {
	store := &memoryStore{
		entries:         make(map[string]memoryEntry),
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store
}

// Close drops all entries.
func (m *memoryStore) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// Get returns the live entry for key, if any.
func (m *memoryStore) Get(key string) (Entry, bool) {
	now := m.now()
	m.maybeCleanupExpired(now)

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	if !e.expiry.After(now) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && !cur.expiry.After(now) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return Entry{}, false
	}
	return cloneEntry(e.entry), true
}

// Put stores entry under key for the configured TTL.
func (m *memoryStore) Put(key string, entry Entry) {
	now := m.now()
	m.maybeCleanupExpired(now)

	m.mu.Lock()
	m.entries[key] = memoryEntry{entry: cloneEntry(entry), expiry: now.Add(m.ttl)}
	m.mu.Unlock()
}

func (m *memoryStore) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// maybeCleanupExpired sweeps expired entries on a fixed cadence to avoid unbounded growth.
func (m *memoryStore) maybeCleanupExpired(now time.Time) {
	last := time.Unix(m.lastCleanup.Load(), 0)
	if now.Sub(last) < m.cleanupInterval {
		return
	}

	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()

	last = time.Unix(m.lastCleanup.Load(), 0)
	if now.Sub(last) < m.cleanupInterval {
		return
	}

	m.mu.Lock()
	for k, e := range m.entries {
		if !e.expiry.After(now) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
	m.lastCleanup.Store(now.Unix())
}

func cloneEntry(e Entry) Entry {
	return Entry{Body: append([]byte(nil), e.Body...), StatusCode: e.StatusCode}
}
