package history

import (
	"context"
	"log/slog"

	"subtitlecat/internal/logging"
	"subtitlecat/internal/services"
)

// Recorder writes runs without letting history failures reach the batch.
// A nil *Recorder or one without a store records nothing.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder wraps store. store may be nil when history is disabled.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logging.NewComponentLogger(logger, "history")}
}

// Tracker accumulates the outcome of one run.
type Tracker struct {
	recorder *Recorder
	run      Run
}

// Start opens a run. The returned tracker is always usable.
func (r *Recorder) Start(ctx context.Context, kind Kind, root, target string) *Tracker {
	if r == nil || r.store == nil {
		return &Tracker{}
	}
	run, err := r.store.Begin(context.WithoutCancel(ctx), kind, root, target)
	if err != nil {
		r.warn(err, "begin")
		return &Tracker{}
	}
	return &Tracker{recorder: r, run: run}
}

// ID returns the job id, or "" when nothing is being recorded.
func (t *Tracker) ID() string {
	if t == nil {
		return ""
	}
	return t.run.ID
}

// Item records a file outcome.
func (t *Tracker) Item(ctx context.Context, path, outcome, detail string) {
	if t == nil || t.recorder == nil {
		return
	}
	if err := t.recorder.store.AddItem(context.WithoutCancel(ctx), t.run.ID, path, outcome, detail); err != nil {
		t.recorder.warn(err, "item")
	}
}

// Finish stamps the run status derived from err, or status when non-empty.
func (t *Tracker) Finish(ctx context.Context, status string, err error) {
	if t == nil || t.recorder == nil {
		return
	}
	if status == "" {
		status = services.FailureStatus(err)
	}
	message := ""
	if err != nil {
		message = err.Error()
	}
	if ferr := t.recorder.store.Finish(context.WithoutCancel(ctx), t.run.ID, status, message); ferr != nil {
		t.recorder.warn(ferr, "finish")
	}
}

func (r *Recorder) warn(err error, op string) {
	logging.WarnWithContext(r.logger, "run history not updated", "history_write_failed",
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldImpact, "batch continues without history"),
	)
}
