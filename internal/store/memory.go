package store

import (
	"context"
	"sync"

	"shelf-go/internal/shelf"
)

// MemoryStore keeps the encoded state document in memory. Every Load decodes
// a fresh copy, so a caller mutating a loaded state never changes what is
// stored until Save succeeds. This implementation is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

var _ shelf.StateStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the last saved state, or an empty state before the first save.
func (m *MemoryStore) Load(_ context.Context) (*shelf.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return shelf.DecodeState(m.data)
}

// Save replaces the stored document.
func (m *MemoryStore) Save(_ context.Context, state *shelf.State) error {
	data, err := shelf.EncodeState(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryStore) Close() error { return nil }
