package workflow

import (
	"subtitlecat/internal/jobstate"
	"subtitlecat/internal/language"
	"subtitlecat/internal/library"
)

// StatusSummary is a point-in-time view of the manager and its settings.
type StatusSummary struct {
	Jobs              jobstate.Snapshot
	Root              string
	Videos            int
	SelectedVideos    int
	Subtitles         int
	SelectedSubtitles int
	Defaults          []string
	Target            language.Target
	Keys              int
	LastError         string
}

// Status returns the latest workflow information.
func (m *Manager) Status() StatusSummary {
	catalog := m.settings.Catalog()
	inv := catalog.Inventory()
	summary := StatusSummary{
		Jobs:              m.state.Snapshot(),
		Root:              m.settings.Root(),
		Videos:            len(inv.Videos),
		SelectedVideos:    len(catalog.Selected(library.KindVideo)),
		Subtitles:         len(inv.Subtitles),
		SelectedSubtitles: len(catalog.Selected(library.KindSubtitle)),
		Defaults:          m.settings.Defaults(),
		Target:            m.settings.Target(),
		Keys:              m.settings.KeyCount(),
	}
	m.mu.RLock()
	if m.lastErr != nil {
		summary.LastError = m.lastErr.Error()
	}
	m.mu.RUnlock()
	return summary
}
