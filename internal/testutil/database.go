package testutil

import (
	"testing"

	"shelf-go/internal/database"
)

// NewTestSQLiteStore creates a new in-memory SQLite store with migrations applied.
// The store is automatically closed when the test completes.
func NewTestSQLiteStore(t *testing.T) *database.SQLiteStore {
	t.Helper()

	store, err := database.NewSQLiteStore(":memory:", 0)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})

	if err := store.MigrateUp(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	return store
}
