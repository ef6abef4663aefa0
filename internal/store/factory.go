package store

import (
	"context"
	"fmt"

	"shelf-go/internal/config"
	"shelf-go/internal/database"
	"shelf-go/internal/shelf"
)

// NewStateStoreFromConfig creates a StateStore implementation based on the store config type.
// SQLite stores must already be migrated; run "shelf db migrate" first.
func NewStateStoreFromConfig(ctx context.Context, cfg config.StoreConfig, instanceID string) (shelf.StateStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file store requires path to be set")
		}
		fileStore, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return fileStore, nil
	case "sqlite":
		db, err := database.NewSQLiteStoreFromConfig(cfg, instanceID)
		if err != nil {
			return nil, err
		}
		if err := db.CheckMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("database schema out of date: %w", err)
		}
		return db, nil
	case "s3":
		s3Store, err := NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
