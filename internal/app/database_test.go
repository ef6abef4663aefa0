package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"shelf-go/internal/config"
)

func newSQLiteConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig("db-instance", dir)
	cfg.Store = config.StoreConfig{Type: "sqlite", DataDir: filepath.Join(dir, "db"), KeepSnapshots: 2}
	return cfg
}

func TestInspectDatabase_BeforeMigration(t *testing.T) {
	cfg := newSQLiteConfig(t)

	report, err := InspectDatabase(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InspectDatabase() error = %v", err)
	}
	if report.Schema.Current != 0 || report.Schema.Pending() == 0 {
		t.Errorf("Schema = %+v, want unmigrated", report.Schema)
	}
	if len(report.Snapshots) != 0 {
		t.Errorf("Snapshots = %v, want none", report.Snapshots)
	}
}

func TestMigrateDatabase_ThenServe(t *testing.T) {
	cfg := newSQLiteConfig(t)
	cfg.Transport.Format = "text"
	ctx := context.Background()

	status, err := MigrateDatabase(cfg)
	if err != nil {
		t.Fatalf("MigrateDatabase() error = %v", err)
	}
	if status.Pending() != 0 || status.Dirty {
		t.Fatalf("status after migrate = %+v", status)
	}

	a, _ := newTestApp(t, cfg)
	input := "carol /mkdir A\ncarol /mkdir B\ncarol /mkdir C\n"
	if err := a.Run(ctx, strings.NewReader(input)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	report, err := InspectDatabase(ctx, cfg)
	if err != nil {
		t.Fatalf("InspectDatabase() error = %v", err)
	}
	if len(report.Snapshots) != 2 {
		t.Errorf("len(Snapshots) = %d, want 2 (keep_snapshots)", len(report.Snapshots))
	}

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := BackupDatabase(cfg, dest); err != nil {
		t.Fatalf("BackupDatabase() error = %v", err)
	}
}

func TestBackupDatabase_RequiresMigration(t *testing.T) {
	cfg := newSQLiteConfig(t)
	if err := BackupDatabase(cfg, filepath.Join(t.TempDir(), "b.db")); err == nil {
		t.Error("BackupDatabase() expected error on unmigrated database")
	}
}
