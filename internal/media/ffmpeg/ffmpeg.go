// Package ffmpeg extracts embedded subtitle streams to SRT files.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"subtitlecat/internal/toolexec"
)

// UnknownLanguage labels outputs of streams without a language tag.
const UnknownLanguage = "unknown"

// OutputPath returns <video-without-extension>.<lang>.srt next to the video.
// A blank language becomes UnknownLanguage.
func OutputPath(video, lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = UnknownLanguage
	}
	stem := strings.TrimSuffix(video, filepath.Ext(video))
	return stem + "." + lang + ".srt"
}

// ExtractArgs returns the ffmpeg arguments that write stream index of video
// to output as SRT, overwriting any existing file.
func ExtractArgs(video, index, output string) []string {
	return []string{"-y", "-i", video, "-map", "0:" + index, "-c:s", "srt", output}
}

// ExtractSubtitle runs ffmpeg for a single stream.
func ExtractSubtitle(ctx context.Context, runner toolexec.Runner, binary, video, index, output string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(video) == "" || strings.TrimSpace(output) == "" {
		return errors.New("ffmpeg extract: empty path")
	}
	if strings.TrimSpace(index) == "" {
		return errors.New("ffmpeg extract: empty stream index")
	}
	if _, err := runner.Run(ctx, binary, ExtractArgs(video, index, output)...); err != nil {
		return fmt.Errorf("ffmpeg extract stream %s: %w", index, err)
	}
	return nil
}
