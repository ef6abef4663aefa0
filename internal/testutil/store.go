package testutil

import (
	"context"
	"errors"
	"sync"

	"shelf-go/internal/shelf"
	"shelf-go/internal/store"
)

// ErrInjected is returned by FlakyStore for injected failures.
var ErrInjected = errors.New("injected store failure")

// FlakyStore wraps a StateStore and fails a configurable number of the next
// loads and saves with ErrInjected before delegating.
type FlakyStore struct {
	inner shelf.StateStore

	mu        sync.Mutex
	loadFails int
	saveFails int
	loads     int
	saves     int
}

var _ shelf.StateStore = (*FlakyStore)(nil)

// NewFlakyStore wraps inner, or a fresh MemoryStore when inner is nil.
func NewFlakyStore(inner shelf.StateStore) *FlakyStore {
	if inner == nil {
		inner = store.NewMemoryStore()
	}
	return &FlakyStore{inner: inner}
}

// FailLoads makes the next n Load calls fail.
func (f *FlakyStore) FailLoads(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadFails = n
}

// FailSaves makes the next n Save calls fail.
func (f *FlakyStore) FailSaves(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveFails = n
}

// Calls reports how many Load and Save calls were made, failed ones included.
func (f *FlakyStore) Calls() (loads, saves int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads, f.saves
}

func (f *FlakyStore) Load(ctx context.Context) (*shelf.State, error) {
	f.mu.Lock()
	f.loads++
	fail := f.loadFails > 0
	if fail {
		f.loadFails--
	}
	f.mu.Unlock()

	if fail {
		return nil, ErrInjected
	}
	return f.inner.Load(ctx)
}

func (f *FlakyStore) Save(ctx context.Context, state *shelf.State) error {
	f.mu.Lock()
	f.saves++
	fail := f.saveFails > 0
	if fail {
		f.saveFails--
	}
	f.mu.Unlock()

	if fail {
		return ErrInjected
	}
	return f.inner.Save(ctx, state)
}

func (f *FlakyStore) Close() error {
	return f.inner.Close()
}
