package workflow

import (
	"context"
	"fmt"

	"subtitlecat/internal/extraction"
	"subtitlecat/internal/history"
	"subtitlecat/internal/library"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/services"
	"subtitlecat/internal/translation"
)

// PipelineResult is the outcome of a one-click run. Translation is nil when
// the pipeline ended before translating.
type PipelineResult struct {
	Extraction  extraction.Report
	Translation *translation.Result
	Status      string
	Err         error
}

// ToggleOneClick stops whatever is running, or starts extraction followed by
// translation of the subtitles selected after extraction. Stopping returns
// a nil channel.
func (m *Manager) ToggleOneClick(ctx context.Context) (<-chan PipelineResult, error) {
	logger := logging.WithContext(ctx, m.logger)
	if !m.state.Snapshot().Idle() {
		m.state.RequestStop()
		logger.Warn("stopping one-click", logging.String(logging.FieldEventType, "stop_requested"))
		return nil, nil
	}

	videos, err := m.selectedVideos()
	if err != nil {
		return nil, err
	}
	switch {
	case m.settings.KeyCount() == 0:
		return nil, services.Wrap(services.ErrValidation, "oneclick", "start", "no API keys configured; add one with `keys add`", nil)
	case m.settings.Target().Code == "":
		return nil, services.Wrap(services.ErrValidation, "oneclick", "start", "no target language set", nil)
	}
	if !m.state.TryStartPipeline() {
		return nil, services.Wrap(services.ErrBusy, "oneclick", "start", "a batch is already running", nil)
	}
	if err := m.coordinator.PersistKeys(ctx); err != nil {
		m.state.FinishExtraction()
		m.state.FinishTranslation()
		return nil, err
	}

	target := m.settings.Target().Code
	tracker := m.recorder.Start(ctx, history.KindOneClick, m.settings.Root(), target)
	jobCtx := services.WithJobID(ctx, tracker.ID())
	logging.WithContext(jobCtx, m.logger).Info("one-click started",
		logging.Int("videos", len(videos)),
		logging.String("target", target),
	)

	done := make(chan PipelineResult, 1)
	m.spawn(func() {
		defer close(done)
		result := m.runPipeline(jobCtx, tracker, videos, target)
		if result.Err != nil {
			m.setLastError(result.Err)
		}
		tracker.Finish(jobCtx, result.Status, result.Err)
		done <- result
	})
	return done, nil
}

// runPipeline owns both job flags on entry and releases them on every path.
func (m *Manager) runPipeline(ctx context.Context, tracker *history.Tracker, videos []string, target string) (result PipelineResult) {
	logger := logging.WithContext(ctx, m.logger)

	extractCtx := services.WithStage(ctx, "extraction")
	report, err := m.runExtraction(extractCtx, videos)
	m.state.FinishExtraction()
	result.Extraction = report
	recordExtraction(ctx, tracker, report)

	switch {
	case err != nil:
		m.state.FinishTranslation()
		result.Status = services.StatusFailed
		result.Err = err
		return result
	case report.Cancelled || m.state.CancelRequested():
		m.state.FinishTranslation()
		logger.Warn("one-click stopped", logging.String(logging.FieldEventType, "oneclick_stopped"))
		result.Status = services.StatusStopped
		return result
	}

	m.refresh(ctx)
	files := m.settings.Catalog().Selected(library.KindSubtitle)
	if len(files) == 0 {
		m.state.FinishTranslation()
		logging.WarnWithContext(logger, "no subtitle files to translate", "oneclick_no_subtitles",
			logging.String(logging.FieldImpact, "translation skipped"),
			logging.String(logging.FieldErrorHint, "select subtitle files or check extraction output"),
		)
		result.Status = services.StatusFailed
		result.Err = services.Wrap(services.ErrNotFound, "oneclick", "translate", "no subtitle files to translate", nil)
		return result
	}

	translateCtx := services.WithStage(ctx, "translation")
	req := translation.Request{Files: files, TargetCode: target}
	translated := m.coordinator.Run(translateCtx, req)
	m.refresh(ctx)
	m.recordTranslation(ctx, tracker, req, translated)

	result.Translation = &translated
	result.Status = translated.Status
	result.Err = translated.Err
	if translated.Status == services.StatusCompleted {
		logger.Info("one-click finished",
			logging.Int("extracted", len(report.Produced)),
			logging.Int("translated", translated.Files),
		)
	}
	return result
}

// String renders a one-line summary.
func (r PipelineResult) String() string {
	if r.Translation == nil {
		return fmt.Sprintf("%s: extracted %d file(s)", r.Status, len(r.Extraction.Produced))
	}
	return fmt.Sprintf("%s: extracted %d file(s), translated %d file(s)", r.Status, len(r.Extraction.Produced), r.Translation.Files)
}
