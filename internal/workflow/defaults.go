package workflow

import (
	"context"
	"path/filepath"
	"strings"

	"subtitlecat/internal/library"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/services"
)

// SetupDefaultLanguages probes a sample video and asks the operator which of
// its streams define the default languages. The sample is the first
// selected video, or the first video when nothing is selected. It blocks
// until the operator answers, so callers serving prompts must run it off
// their own goroutine.
func (m *Manager) SetupDefaultLanguages(ctx context.Context) ([]string, error) {
	sample, err := m.sampleVideo()
	if err != nil {
		return nil, err
	}
	ctx = services.WithStage(ctx, "defaults")
	logger := logging.WithContext(ctx, m.logger)

	streams := m.prober.Probe(ctx, sample)
	tags, err := m.resolver.ChooseDefaults(ctx, filepath.Base(sample), streams)
	if err != nil {
		return nil, err
	}
	m.settings.SetDefaults(tags)
	logger.Info("default languages set",
		logging.String("languages", strings.Join(tags, ",")),
		logging.String(logging.FieldVideo, filepath.Base(sample)),
	)
	return m.settings.Defaults(), nil
}

func (m *Manager) sampleVideo() (string, error) {
	if m.settings.Root() == "" {
		return "", services.Wrap(services.ErrValidation, "defaults", "sample", "no directory selected; use `dir <path>` first", nil)
	}
	catalog := m.settings.Catalog()
	if selected := catalog.Selected(library.KindVideo); len(selected) > 0 {
		return selected[0], nil
	}
	entries := catalog.Entries(library.KindVideo)
	if len(entries) == 0 {
		return "", services.Wrap(services.ErrNotFound, "defaults", "sample", "no video files in directory", nil)
	}
	return entries[0].AbsPath, nil
}
