package selection

import (
	"sync"

	"subtitlecat/internal/language"
	"subtitlecat/internal/media/ffprobe"
)

// LanguageSet is the process-wide default-language policy. Safe for
// concurrent use; batches read it once per video.
type LanguageSet struct {
	mu   sync.RWMutex
	tags []string
}

// NewLanguageSet returns a set seeded with tags.
func NewLanguageSet(tags ...string) *LanguageSet {
	s := &LanguageSet{}
	s.Set(tags)
	return s
}

// Set replaces the set contents.
func (s *LanguageSet) Set(tags []string) {
	normalized := language.NormalizeList(tags)
	s.mu.Lock()
	s.tags = normalized
	s.mu.Unlock()
}

// Tags returns a copy of the current tags.
func (s *LanguageSet) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.tags...)
}

// Empty reports whether no default language is configured.
func (s *LanguageSet) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tags) == 0
}

// Match returns the streams whose language tag is equivalent to one of tags,
// in probe order. Untagged streams never match.
func Match(streams []ffprobe.SubtitleStream, tags []string) []ffprobe.SubtitleStream {
	var out []ffprobe.SubtitleStream
	for _, stream := range streams {
		if stream.Language == nil {
			continue
		}
		for _, tag := range tags {
			if language.Equivalent(*stream.Language, tag) {
				out = append(out, stream)
				break
			}
		}
	}
	return out
}
