package workflow

import (
	"context"
	"fmt"

	"subtitlecat/internal/extraction"
	"subtitlecat/internal/history"
	"subtitlecat/internal/library"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/services"
)

// StartExtraction extracts the selected videos on a background goroutine.
// The returned channel receives the report once the batch ends.
func (m *Manager) StartExtraction(ctx context.Context) (<-chan extraction.Report, error) {
	videos, err := m.selectedVideos()
	if err != nil {
		return nil, err
	}
	if !m.state.TryStartExtraction() {
		return nil, services.Wrap(services.ErrBusy, "extraction", "start", "extraction already running", nil)
	}

	tracker := m.recorder.Start(ctx, history.KindExtraction, m.settings.Root(), "")
	jobCtx := services.WithStage(services.WithJobID(ctx, tracker.ID()), "extraction")
	logging.WithContext(jobCtx, m.logger).Info("extraction started", logging.Int("videos", len(videos)))

	done := make(chan extraction.Report, 1)
	m.spawn(func() {
		defer close(done)
		report, err := m.runExtraction(jobCtx, videos)
		m.state.FinishExtraction()
		m.refresh(jobCtx)
		recordExtraction(jobCtx, tracker, report)
		tracker.Finish(jobCtx, report.Status(), err)
		if err != nil {
			m.setLastError(err)
		}
		done <- report
	})
	return done, nil
}

// runExtraction runs the driver and turns a panic into an error. The caller
// owns the extraction flag.
func (m *Manager) runExtraction(ctx context.Context, videos []string) (report extraction.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = services.Wrap(services.ErrTransient, "extraction", "run", "extraction panicked", fmt.Errorf("%v", r))
			logging.ErrorWithContext(logging.WithContext(ctx, m.logger), "extraction failed", "extraction_panic", logging.Error(err))
		}
	}()
	if !m.settings.HasDefaults() {
		logging.WithContext(ctx, m.logger).Info("no default languages set; every video will ask which streams to extract")
	}
	report = m.driver.Run(ctx, extraction.Request{
		Videos:   videos,
		Defaults: m.settings.Defaults,
	}, m.state.CancelRequested)
	return report, nil
}

func (m *Manager) selectedVideos() ([]string, error) {
	if m.settings.Root() == "" {
		return nil, services.Wrap(services.ErrValidation, "extraction", "start", "no directory selected; use `dir <path>` first", nil)
	}
	videos := m.settings.Catalog().Selected(library.KindVideo)
	if len(videos) == 0 {
		return nil, services.Wrap(services.ErrValidation, "extraction", "start", "no video files selected", nil)
	}
	return videos, nil
}

func recordExtraction(ctx context.Context, tracker *history.Tracker, report extraction.Report) {
	for _, path := range report.Produced {
		tracker.Item(ctx, path, history.OutcomeProduced, "")
	}
	for _, failure := range report.Failures {
		tracker.Item(ctx, failure.Video, history.OutcomeFailed,
			fmt.Sprintf("stream %s (%s): %v", failure.Index, failure.Language, failure.Err))
	}
	for _, path := range report.Skipped {
		tracker.Item(ctx, path, history.OutcomeSkipped, "")
	}
}
