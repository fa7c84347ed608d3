// Package progress tracks per-run generation state. Every run writes its
// own snapshot keyed by run id, so concurrent runs never contaminate each
// other's progress. Delivery (the SSE stream) polls the store; this
// package only records.
package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/castwave/castwave/internal/pipeline"
)

// Snapshot is the current state of one generation run.
type Snapshot struct {
	RunID       string    `json:"run_id"`
	CurrentLine int       `json:"current_line"`
	TotalLines  int       `json:"total_lines"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists run snapshots. Implementations must be safe for
// concurrent use.
type Store interface {
	Set(ctx context.Context, snap Snapshot) error
	// Get returns the snapshot for a run and whether one exists.
	Get(ctx context.Context, runID string) (Snapshot, bool, error)
	Delete(ctx context.Context, runID string) error
}

// Tracker records one run's progress into a store. Store failures are
// logged and swallowed: generation must not abort because progress
// bookkeeping hiccuped.
type Tracker struct {
	store  Store
	runID  string
	logger *slog.Logger
}

// NewTracker binds a store to a run id.
func NewTracker(store Store, runID string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, runID: runID, logger: logger}
}

// RunID returns the tracked run's id.
func (t *Tracker) RunID() string { return t.runID }

// Handle records a pipeline event. It satisfies pipeline.ProgressFunc.
func (t *Tracker) Handle(e pipeline.Event) {
	t.write(Snapshot{
		RunID:       t.runID,
		CurrentLine: e.CurrentLine,
		TotalLines:  e.TotalLines,
		Status:      e.Status,
		Message:     e.Message,
	})
}

// Start marks the run as beginning with the given line count.
func (t *Tracker) Start(totalLines int) {
	t.write(Snapshot{RunID: t.runID, TotalLines: totalLines, Status: pipeline.StatusIdle})
}

// Complete marks the run finished.
func (t *Tracker) Complete(totalLines int) {
	t.write(Snapshot{
		RunID:       t.runID,
		CurrentLine: totalLines,
		TotalLines:  totalLines,
		Status:      pipeline.StatusCompleted,
		Message:     "Generation complete!",
	})
}

// Fail marks the run failed with the error message, keeping the line
// counters from the last update.
func (t *Tracker) Fail(message string) {
	snap := Snapshot{RunID: t.runID, Status: pipeline.StatusError, Message: message}
	if prev, ok, err := t.store.Get(context.Background(), t.runID); err == nil && ok {
		snap.CurrentLine = prev.CurrentLine
		snap.TotalLines = prev.TotalLines
	}
	t.write(snap)
}

func (t *Tracker) write(snap Snapshot) {
	snap.UpdatedAt = time.Now().UTC()
	if err := t.store.Set(context.Background(), snap); err != nil {
		t.logger.Warn("progress update failed", "run_id", t.runID, "error", err)
	}
}
