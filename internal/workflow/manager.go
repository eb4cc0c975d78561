package workflow

import (
	"context"
	"log/slog"
	"sync"

	"subtitlecat/internal/extraction"
	"subtitlecat/internal/history"
	"subtitlecat/internal/jobstate"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/selection"
	"subtitlecat/internal/toolexec"
	"subtitlecat/internal/translation"
)

// Tools names the media binaries and the runner used to invoke them.
type Tools struct {
	Runner  toolexec.Runner
	FFprobe string
	FFmpeg  string
}

// Translator is the translation collaborator. OutputPath, when set, lets the
// manager record which inputs produced a translated file.
type Translator struct {
	Translate  translation.Func
	OutputPath func(input, targetCode string) string
}

// Manager starts and stops batches for one Settings instance.
type Manager struct {
	settings    *Settings
	state       *jobstate.State
	prober      extraction.StreamProber
	resolver    *selection.Resolver
	driver      *extraction.Driver
	coordinator *translation.Coordinator
	outputPath  func(input, targetCode string) string
	recorder    *history.Recorder
	logger      *slog.Logger

	wg sync.WaitGroup

	mu      sync.RWMutex
	lastErr error
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithRecorder records every batch in the run history.
func WithRecorder(recorder *history.Recorder) ManagerOption {
	return func(m *Manager) {
		m.recorder = recorder
	}
}

// WithProber replaces the ffprobe-backed prober.
func WithProber(prober extraction.StreamProber) ManagerOption {
	return func(m *Manager) {
		m.prober = prober
	}
}

// NewManager wires the extraction driver, the language resolver and the
// translation coordinator around a fresh job state. asker receives the
// operator prompts raised by background batches.
func NewManager(settings *Settings, tools Tools, asker selection.Asker, translator Translator, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	if tools.Runner == nil {
		tools.Runner = toolexec.ExecRunner{}
	}
	state := jobstate.New()
	m := &Manager{
		settings:   settings,
		state:      state,
		resolver:   selection.NewResolver(asker, logger),
		outputPath: translator.OutputPath,
		logger:     logging.NewComponentLogger(logger, "workflow"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.prober == nil {
		m.prober = extraction.NewProber(tools.Runner, tools.FFprobe, logger)
	}
	m.driver = extraction.NewDriver(m.prober, m.resolver, tools.Runner, tools.FFmpeg, logger)

	var keys translation.KeyPool
	if settings.Keys() != nil {
		keys = settings.Keys()
	}
	m.coordinator = translation.NewCoordinator(state, keys, translator.Translate, logger)
	return m
}

// Settings returns the shared operator settings.
func (m *Manager) Settings() *Settings {
	return m.settings
}

// Stop requests cooperative cancellation of every running batch. It reports
// whether anything was running.
func (m *Manager) Stop(ctx context.Context) bool {
	active := m.state.RequestStop()
	if active {
		logging.WithContext(ctx, m.logger).Warn("stop requested",
			logging.String(logging.FieldEventType, "stop_requested"),
		)
	}
	return active
}

// Wait blocks until every background batch has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// spawn runs fn on a tracked goroutine.
func (m *Manager) spawn(fn func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fn()
	}()
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

// refresh rescans the library after a batch wrote files.
func (m *Manager) refresh(ctx context.Context) {
	if m.settings.Root() == "" {
		return
	}
	inv, err := m.settings.Catalog().Refresh()
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "library refresh failed", "refresh_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file lists may be stale"),
			logging.String(logging.FieldErrorHint, "run `ls` again once the directory is readable"),
		)
		return
	}
	logging.WithContext(ctx, m.logger).Debug("library refreshed",
		logging.Int("videos", len(inv.Videos)),
		logging.Int("subtitles", len(inv.Subtitles)),
	)
}
