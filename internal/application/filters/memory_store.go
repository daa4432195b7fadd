package filters

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	filter    Filter
	expiresAt time.Time
}

// MemoryStore implementación en proceso; se usa cuando no hay Redis configurado.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore construye el store. ttl <= 0 = sin expiración.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// Load devuelve la selección si existe y no expiró.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (Filter, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sessionID]
	if !ok {
		return Filter{}, false, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.entries, sessionID)
		return Filter{}, false, nil
	}
	return e.filter, true, nil
}

// Save guarda la selección renovando la expiración.
func (m *MemoryStore) Save(_ context.Context, sessionID string, f Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{filter: f}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[sessionID] = e
	return nil
}

// Delete elimina la selección.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
