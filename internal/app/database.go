package app

import (
	"context"
	"fmt"

	"shelf-go/internal/config"
	"shelf-go/internal/database"
	"shelf-go/internal/database/migrations"
)

// DatabaseReport describes a sqlite state store for the "db status" command.
type DatabaseReport struct {
	Path      string
	Schema    migrations.Status
	Snapshots []database.Snapshot
}

// MigrateDatabase brings the configured sqlite store up to the latest schema
// and returns the resulting status.
func MigrateDatabase(cfg *config.Config) (migrations.Status, error) {
	db, err := database.NewSQLiteStoreFromConfig(cfg.Store, cfg.InstanceID)
	if err != nil {
		return migrations.Status{}, err
	}
	defer db.Close()

	if err := db.MigrateUp(); err != nil {
		return migrations.Status{}, fmt.Errorf("migrating %s: %w", db.Path(), err)
	}
	return migrations.GetStatus(db.DB())
}

// InspectDatabase reports schema version and retained snapshots. Snapshots
// are only listed once the schema is current.
func InspectDatabase(ctx context.Context, cfg *config.Config) (*DatabaseReport, error) {
	db, err := database.NewSQLiteStoreFromConfig(cfg.Store, cfg.InstanceID)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	status, err := migrations.GetStatus(db.DB())
	if err != nil {
		return nil, err
	}
	report := &DatabaseReport{Path: db.Path(), Schema: status}
	if status.Dirty || status.Current != status.Latest {
		return report, nil
	}

	snaps, err := db.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	report.Snapshots = snaps
	return report, nil
}

// BackupDatabase copies the configured sqlite store to destPath.
func BackupDatabase(cfg *config.Config, destPath string) error {
	db, err := database.NewSQLiteStoreFromConfig(cfg.Store, cfg.InstanceID)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CheckMigrations(); err != nil {
		return fmt.Errorf("database schema out of date: %w", err)
	}
	return db.BackupTo(destPath)
}
