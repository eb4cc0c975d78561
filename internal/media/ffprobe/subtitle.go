package ffprobe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"subtitlecat/internal/toolexec"
)

// SubtitleStream describes one embedded subtitle stream. Index is opaque and
// only meaningful within the probe result that produced it.
type SubtitleStream struct {
	Index    string
	Language *string
	Title    *string
}

// LanguageOr returns the language tag or fallback when the tag is absent.
func (s SubtitleStream) LanguageOr(fallback string) string {
	if s.Language == nil {
		return fallback
	}
	return *s.Language
}

// TitleOr returns the title tag or fallback when the tag is absent.
func (s SubtitleStream) TitleOr(fallback string) string {
	if s.Title == nil {
		return fallback
	}
	return *s.Title
}

// SubtitleStreamArgs returns the ffprobe arguments that list subtitle streams
// of video with their language and title tags.
func SubtitleStreamArgs(video string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "s",
		"-show_entries", "stream=index:stream_tags=language,title",
		"-of", "default=noprint_wrappers=1",
		video,
	}
}

// SubtitleStreams runs ffprobe and returns the subtitle streams of video in
// the order ffprobe reports them.
func SubtitleStreams(ctx context.Context, runner toolexec.Runner, binary, video string) ([]SubtitleStream, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(video) == "" {
		return nil, errors.New("ffprobe subtitle streams: empty path")
	}
	output, err := runner.Run(ctx, binary, SubtitleStreamArgs(video)...)
	if err != nil {
		return nil, fmt.Errorf("ffprobe subtitle streams: %w", err)
	}
	streams, err := ParseSubtitleStreams(output.Stdout)
	if err != nil {
		return nil, fmt.Errorf("ffprobe subtitle streams: %w", err)
	}
	return streams, nil
}

// ParseSubtitleStreams parses ffprobe "default" writer output without
// wrappers. An "index=" line starts a new stream; TAG:language and TAG:title
// attach to the current stream. Everything else, including tag lines before
// the first index, is ignored.
func ParseSubtitleStreams(output string) ([]SubtitleStream, error) {
	var streams []SubtitleStream
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "index":
			streams = append(streams, SubtitleStream{Index: strings.TrimSpace(value)})
		case "TAG:language":
			if len(streams) > 0 {
				streams[len(streams)-1].Language = stringPtr(strings.TrimSpace(value))
			}
		case "TAG:title":
			if len(streams) > 0 {
				streams[len(streams)-1].Title = stringPtr(strings.TrimSpace(value))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan output: %w", err)
	}
	return streams, nil
}

func stringPtr(value string) *string {
	return &value
}
