package database

import (
	"fmt"
	"os"
	"path/filepath"

	"shelf-go/internal/config"
)

// NewSQLiteStoreFromConfig opens the SQLite store described by cfg. The
// database file is named after the instance so several instances can share
// a data directory.
func NewSQLiteStoreFromConfig(cfg config.StoreConfig, instanceID string) (*SQLiteStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, instanceID+".db")
		return NewSQLiteStore(dbPath, cfg.KeepSnapshots)
	default:
		return nil, fmt.Errorf("store type %q is not backed by sqlite", cfg.Type)
	}
}
