package storage

import (
	"context"
	"sync"
)

// MemoryAdapter keeps collections in process memory. It is the default
// backend for tests and for callers that have not configured one.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *MemoryAdapter {
	return &MemoryAdapter{
		data: make(map[string][]byte),
	}
}

// Read returns the stored value for key, if any.
func (a *MemoryAdapter) Read(_ context.Context, key string) ([]byte, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	value, ok := a.data[key]
	if !ok {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(value))
	copy(out, value)

	return out, true, nil
}

// Write stores value under key.
func (a *MemoryAdapter) Write(_ context.Context, key string, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	a.data[key] = stored

	return nil
}

// Remove deletes key.
func (a *MemoryAdapter) Remove(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.data, key)

	return nil
}
