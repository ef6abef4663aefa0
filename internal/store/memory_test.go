package store

import (
	"context"
	"testing"

	"shelf-go/internal/shelf"
)

func TestMemoryStore(t *testing.T) {
	t.Run("load before save returns empty state", func(t *testing.T) {
		m := NewMemoryStore()
		state, err := m.Load(context.Background())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(state.Users) != 0 {
			t.Errorf("len(Users) = %d, want 0", len(state.Users))
		}
	})

	t.Run("loaded state is a copy", func(t *testing.T) {
		m := NewMemoryStore()
		ctx := context.Background()

		state := shelf.NewState()
		state.Session("u1")
		if err := m.Save(ctx, state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		loaded, err := m.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		loaded.Session("u2")

		again, err := m.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if _, ok := again.Users["u2"]; ok {
			t.Error("mutating a loaded state changed the stored document")
		}
		if _, ok := again.Users["u1"]; !ok {
			t.Error("saved user u1 missing")
		}
		if m.Saves() != 1 {
			t.Errorf("Saves() = %d, want 1", m.Saves())
		}
	})
}
