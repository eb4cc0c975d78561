package workflow

import (
	"context"
	"os"

	"subtitlecat/internal/history"
	"subtitlecat/internal/library"
	"subtitlecat/internal/services"
	"subtitlecat/internal/translation"
)

// ToggleTranslation stops the running translation batch or starts one over
// the currently selected subtitle files. Stopping returns a nil channel.
func (m *Manager) ToggleTranslation(ctx context.Context) (<-chan translation.Result, error) {
	if m.state.Snapshot().Translating {
		_, err := m.coordinator.Toggle(ctx, translation.Request{})
		return nil, err
	}

	req := m.translationRequest()
	if err := m.coordinator.Validate(req); err != nil {
		return nil, err
	}

	tracker := m.recorder.Start(ctx, history.KindTranslation, m.settings.Root(), req.TargetCode)
	jobCtx := services.WithStage(services.WithJobID(ctx, tracker.ID()), "translation")
	started, err := m.coordinator.Toggle(jobCtx, req)
	if err != nil {
		tracker.Finish(jobCtx, "", err)
		return nil, err
	}

	done := make(chan translation.Result, 1)
	m.spawn(func() {
		defer close(done)
		result := <-started
		m.afterTranslation(jobCtx, tracker, req, result)
		done <- result
	})
	return done, nil
}

func (m *Manager) translationRequest() translation.Request {
	return translation.Request{
		Files:      m.settings.Catalog().Selected(library.KindSubtitle),
		TargetCode: m.settings.Target().Code,
	}
}

// afterTranslation refreshes the library and records the outcome.
func (m *Manager) afterTranslation(ctx context.Context, tracker *history.Tracker, req translation.Request, result translation.Result) {
	m.refresh(ctx)
	m.recordTranslation(ctx, tracker, req, result)
	tracker.Finish(ctx, result.Status, result.Err)
	if result.Err != nil {
		m.setLastError(result.Err)
	}
}

func (m *Manager) recordTranslation(ctx context.Context, tracker *history.Tracker, req translation.Request, result translation.Result) {
	if m.outputPath == nil {
		return
	}
	for _, input := range req.Files {
		if translation.IsOutputFor(input, req.TargetCode) {
			continue
		}
		output := m.outputPath(input, req.TargetCode)
		if _, err := os.Stat(output); err == nil {
			tracker.Item(ctx, output, history.OutcomeProduced, "")
			continue
		}
		outcome := history.OutcomeSkipped
		if result.Status == services.StatusFailed {
			outcome = history.OutcomeFailed
		}
		tracker.Item(ctx, input, outcome, "")
	}
}
