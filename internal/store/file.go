package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"shelf-go/internal/shelf"
)

// FileStore keeps the state document in a single JSON file. Saves write a
// temp file in the same directory and rename it over the old one, so a crash
// leaves either the previous or the new document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ shelf.StateStore = (*FileStore)(nil)

// NewFileStore creates a store at path, creating its directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the state file.
func (f *FileStore) Path() string { return f.path }

// Load reads the state file. A missing file is an empty state.
func (f *FileStore) Load(_ context.Context) (*shelf.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return shelf.NewState(), nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	state, err := shelf.DecodeState(data)
	if err != nil {
		return nil, fmt.Errorf("state file %s: %w", f.path, err)
	}
	return state, nil
}

// Save writes the whole document atomically (temp file + rename).
func (f *FileStore) Save(_ context.Context, state *shelf.State) error {
	data, err := shelf.EncodeState(state)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmpFile, err := os.CreateTemp(filepath.Dir(f.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func (f *FileStore) Close() error { return nil }
