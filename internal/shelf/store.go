package shelf

import "context"

// StateStore persists the whole State document. Load and Save are
// all-or-nothing; the last successful Save wins.
type StateStore interface {
	// Load returns the most recently saved state, or an empty state if none
	// has been saved yet. The returned value is owned by the caller.
	Load(ctx context.Context) (*State, error)

	// Save replaces the stored state. A failed Save leaves the previous
	// state intact.
	Save(ctx context.Context, state *State) error

	// Close releases any resources held by the store.
	Close() error
}
