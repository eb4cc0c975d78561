package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"subtitlecat/internal/jobstate"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/services"
)

// Func translates files into targetCode. It reports progress through log
// and must return promptly once shouldStop reports true, checking it at
// least between files.
type Func func(ctx context.Context, files []string, targetCode string, log func(string), shouldStop func() bool) error

// KeyPool is the credential pool a batch depends on.
type KeyPool interface {
	Len() int
	Persist() error
}

// Request describes one translation batch.
type Request struct {
	Files      []string
	TargetCode string
}

// Result is the outcome of a batch.
type Result struct {
	Status string
	Files  int
	Err    error
}

// Coordinator runs translation batches against a shared job state.
type Coordinator struct {
	state     *jobstate.State
	keys      KeyPool
	translate Func
	logger    *slog.Logger
}

// NewCoordinator wires a coordinator.
func NewCoordinator(state *jobstate.State, keys KeyPool, translate Func, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		state:     state,
		keys:      keys,
		translate: translate,
		logger:    logging.NewComponentLogger(logger, "translation"),
	}
}

// Validate checks the batch preconditions without touching any state.
func (c *Coordinator) Validate(req Request) error {
	switch {
	case len(req.Files) == 0:
		return services.Wrap(services.ErrValidation, "translation", "start", "no subtitle files selected", nil)
	case c.keys == nil || c.keys.Len() == 0:
		return services.Wrap(services.ErrValidation, "translation", "start", "no API keys configured; add one with `keys add`", nil)
	case strings.TrimSpace(req.TargetCode) == "":
		return services.Wrap(services.ErrValidation, "translation", "start", "no target language set", nil)
	case c.translate == nil:
		return services.Wrap(services.ErrConfiguration, "translation", "start", "no translator configured", nil)
	}
	return nil
}

// PersistKeys writes the key pool before a batch so the translator reads
// the same credentials the operator sees.
func (c *Coordinator) PersistKeys(ctx context.Context) error {
	if err := c.keys.Persist(); err != nil {
		return services.Wrap(services.ErrConfiguration, "translation", "persist keys", "", err)
	}
	logging.WithContext(ctx, c.logger).Info("keys saved")
	return nil
}

// Toggle stops the running translation batch, or starts a new one when none
// is running. Starting returns a channel that receives the batch Result;
// stopping returns a nil channel.
func (c *Coordinator) Toggle(ctx context.Context, req Request) (<-chan Result, error) {
	logger := logging.WithContext(ctx, c.logger)
	if c.state.Snapshot().Translating {
		c.state.RequestStop()
		logger.Warn("stopping translation", logging.String(logging.FieldEventType, "stop_requested"))
		return nil, nil
	}
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	if !c.state.TryStartTranslation() {
		return nil, services.Wrap(services.ErrBusy, "translation", "start", "translation already running", nil)
	}
	if err := c.PersistKeys(ctx); err != nil {
		c.state.FinishTranslation()
		return nil, err
	}

	done := make(chan Result, 1)
	go func() {
		done <- c.Run(ctx, req)
		close(done)
	}()
	return done, nil
}

// Run executes the batch body. The caller must already hold the
// translation flag; Run always releases it.
func (c *Coordinator) Run(ctx context.Context, req Request) (result Result) {
	logger := logging.WithContext(ctx, c.logger)
	operatorLog := func(msg string) {
		logger.Info(msg)
	}

	defer c.state.FinishTranslation()
	defer func() {
		if r := recover(); r != nil {
			result.Err = services.Wrap(services.ErrTransient, "translation", "run", "translator panicked", fmt.Errorf("%v", r))
			result.Status = services.StatusFailed
			logging.ErrorWithContext(logger, "translation failed", "translation_panic", logging.Error(result.Err))
		}
	}()

	files := PendingInputs(req.Files, req.TargetCode, operatorLog)
	result.Files = len(files)
	if len(files) == 0 {
		result.Status = services.StatusCompleted
		logger.Info("nothing to translate", logging.String("target", req.TargetCode))
		return result
	}

	logger.Info("translation started",
		logging.Int("files", len(files)),
		logging.String("target", req.TargetCode),
	)
	err := c.translate(ctx, files, req.TargetCode, operatorLog, c.state.CancelRequested)
	stopped := c.state.CancelRequested() || ctx.Err() != nil || errors.Is(err, services.ErrCancelled)

	switch {
	case stopped:
		result.Status = services.StatusStopped
		if err != nil && !errors.Is(err, services.ErrCancelled) && !errors.Is(err, context.Canceled) {
			result.Err = err
		}
		logger.Warn("translation stopped", logging.String(logging.FieldEventType, "translation_stopped"))
	case err != nil:
		result.Status = services.StatusFailed
		result.Err = err
		logging.ErrorWithContext(logger, "translation failed", "translation_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check API keys and network access"),
		)
	default:
		result.Status = services.StatusCompleted
		logger.Info("translation finished", logging.Int("files", len(files)))
	}
	return result
}

// IsOutputFor reports whether file is already a translation into code, that
// is, its name ends in ".<code>.srt".
func IsOutputFor(file, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(filepath.Base(file)), "."+strings.ToLower(code)+".srt")
}

// PendingInputs drops files that are themselves translations into code,
// reporting each one through log.
func PendingInputs(files []string, code string, log func(string)) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		if IsOutputFor(file, code) {
			if log != nil {
				log(fmt.Sprintf("skip %s: already a %s translation", filepath.Base(file), code))
			}
			continue
		}
		out = append(out, file)
	}
	return out
}
