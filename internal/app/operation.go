package app

import "time"

// Operation tracks one CLI invocation. Every log line written during the
// invocation carries RunID; the counters are reported when the app closes.
type Operation struct {
	RunID     string
	Name      string
	StartedAt time.Time
	Handled   int
	Failed    int
	Status    string // "success" or "error"
}

// NewOperation creates an operation that has handled nothing yet.
func NewOperation(name, runID string, startedAt time.Time) *Operation {
	return &Operation{
		RunID:     runID,
		Name:      name,
		StartedAt: startedAt,
		Status:    "success",
	}
}

// Record counts one handled event. A non-nil err marks the operation failed.
func (op *Operation) Record(err error) {
	op.Handled++
	if err != nil {
		op.Failed++
		op.Status = "error"
	}
}

// Summary returns slog key/value pairs describing the operation as of now.
func (op *Operation) Summary(now time.Time) []any {
	return []any{
		"operation", op.Name,
		"status", op.Status,
		"handled", op.Handled,
		"failed", op.Failed,
		"duration", now.Sub(op.StartedAt).Truncate(time.Millisecond).String(),
	}
}
