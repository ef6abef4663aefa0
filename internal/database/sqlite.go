package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shelf-go/internal/database/migrations"
	"shelf-go/internal/shelf"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultKeepSnapshots is how many state snapshots are retained when the
// configuration does not say otherwise.
const DefaultKeepSnapshots = 10

// SQLiteStore implements shelf.StateStore on top of SQLite. Every save
// inserts a new snapshot row; the newest row is the current state and older
// rows beyond keep are pruned in the same transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
	keep int
	now  func() time.Time
}

var _ shelf.StateStore = (*SQLiteStore)(nil)

// Snapshot describes one stored version of the state document.
type Snapshot struct {
	Version int64
	SavedAt time.Time
	Size    int
}

// NewSQLiteStore opens a SQLite state store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string, keep int) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStoreFromDB(db, path, keep), nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB, path string, keep int) *SQLiteStore {
	if keep <= 0 {
		keep = DefaultKeepSnapshots
	}
	return &SQLiteStore{db: db, path: path, keep: keep, now: time.Now}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A ":memory:" database exists per connection, and SQLite allows one
	// writer at a time anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Load returns the newest snapshot, or an empty state when none exists.
func (s *SQLiteStore) Load(ctx context.Context) (*shelf.State, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT document FROM state_snapshots ORDER BY version DESC LIMIT 1",
	).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shelf.NewState(), nil
		}
		return nil, fmt.Errorf("loading state snapshot: %w", err)
	}
	return shelf.DecodeState(document)
}

// Save inserts a new snapshot and prunes old ones.
func (s *SQLiteStore) Save(ctx context.Context, state *shelf.State) error {
	document, err := shelf.EncodeState(state)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO state_snapshots (document, saved_at) VALUES (?, ?)",
		document, s.now().UTC(),
	); err != nil {
		return fmt.Errorf("inserting state snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM state_snapshots WHERE version NOT IN (
			SELECT version FROM state_snapshots ORDER BY version DESC LIMIT ?
		)`,
		s.keep,
	); err != nil {
		return fmt.Errorf("pruning state snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state snapshot: %w", err)
	}
	return nil
}

// Snapshots lists retained snapshots, newest first.
func (s *SQLiteStore) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT version, saved_at, length(document) FROM state_snapshots ORDER BY version DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("listing state snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.Version, &snap.SavedAt, &snap.Size); err != nil {
			return nil, fmt.Errorf("scanning state snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing state snapshots: %w", err)
	}
	return out, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// DB exposes the connection for migrations.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrateUp applies every pending migration.
func (s *SQLiteStore) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteStore) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
