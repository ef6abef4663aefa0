package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"shelf-go/internal/config"
	"shelf-go/internal/console"
	"shelf-go/internal/shelf"
	"shelf-go/internal/store"

	"github.com/google/uuid"
)

// ShelfApp is the application layer between the CLI and ShelfService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string arguments, and releases the state store on Close.
type ShelfApp struct {
	cfg     *config.Config
	store   shelf.StateStore
	service *shelf.ShelfService
	format  console.Format
	logger  *slogAdapter
	op      *Operation
	logFile *os.File
}

// NewShelfApp creates a fully wired ShelfApp from the given config.
// operation identifies the CLI command being run (e.g. "Run", "CreateShare").
// Outbound chat actions are written to out. The caller must call Close when done.
func NewShelfApp(ctx context.Context, cfg *config.Config, operation string, out *os.File) (*ShelfApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	format, err := console.ResolveFormat(cfg.Transport.Format, out)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger, logFile, err := newLogger(cfg.LogDir, runID, parseLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	st, err := store.NewStateStoreFromConfig(ctx, cfg.Store, cfg.InstanceID)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating state store: %w", err)
	}

	retry := shelf.RetryPolicy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval(),
		MaxInterval:     cfg.Retry.MaxInterval(),
	}
	outbox := console.NewOutbox(out, format)
	svc := shelf.NewShelfService(st, outbox, adapter, shelf.RealClock{}, shelf.UUIDTokens{}, retry)

	adapter.Debug("app started", "operation", operation, "store", cfg.Store.Type, "format", format.String())

	return &ShelfApp{
		cfg:     cfg,
		store:   st,
		service: svc,
		format:  format,
		logger:  adapter,
		op:      NewOperation(operation, runID, time.Now()),
		logFile: logFile,
	}, nil
}

// Operation returns the record of the running CLI invocation.
func (a *ShelfApp) Operation() *Operation {
	return a.op
}

// Handle passes one event to the service and counts it.
func (a *ShelfApp) Handle(ctx context.Context, ev shelf.Event) error {
	err := a.service.Handle(ctx, ev)
	a.op.Record(err)
	return err
}

// Run serves chat events read from in until EOF or ctx is cancelled.
func (a *ShelfApp) Run(ctx context.Context, in io.Reader) error {
	return console.Run(ctx, in, a.format, a, a.logger)
}

// Tree returns userID's folder tree and current path.
func (a *ShelfApp) Tree(ctx context.Context, userID string) (*shelf.Folder, []string, error) {
	return a.service.Tree(ctx, userID)
}

// CreateShare parses rawPath ("/Work/Reports") and shares that folder of
// ownerID's tree.
func (a *ShelfApp) CreateShare(ctx context.Context, ownerID, rawPath string) (*shelf.ShareRecord, error) {
	path, err := ParsePath(rawPath)
	if err != nil {
		return nil, err
	}
	rec, err := a.service.CreateShare(ctx, ownerID, path)
	a.op.Record(err)
	return rec, err
}

// Shares lists share records, all of them when ownerID is empty.
func (a *ShelfApp) Shares(ctx context.Context, ownerID string) ([]*shelf.ShareRecord, error) {
	return a.service.Shares(ctx, ownerID)
}

// Close logs the operation summary and closes the store and log file.
func (a *ShelfApp) Close() error {
	a.logger.Info("operation finished", a.op.Summary(time.Now())...)

	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing state store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// ParsePath splits a slash-separated folder path into its segments. "" and
// "/" are the root. Every segment must be a valid folder name.
func ParsePath(raw string) ([]string, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return []string{}, nil
	}
	segments := strings.Split(trimmed, "/")
	for _, seg := range segments {
		if err := shelf.ValidateFolderName(seg); err != nil {
			return nil, fmt.Errorf("path %q: %w", raw, err)
		}
	}
	return segments, nil
}
