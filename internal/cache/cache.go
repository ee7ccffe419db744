// Package cache provides the injected response cache owned by the care
// resolver. Eviction is a periodic full clear, not per-entry TTL.
package cache

import (
	"sync"
)

// Store is the cache surface handed to components. Implementations must be
// safe for concurrent use; a lost race between two writers of the same key
// is acceptable (last write wins).
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Clear()
}

// Memory is the in-process Store.
type Memory struct {
	mu    sync.RWMutex
	items map[string]any
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]any)}
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]any)
}

// Len reports the entry count. Used by tests and the health document.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
