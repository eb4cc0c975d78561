package extraction

import (
	"context"
	"log/slog"
	"path/filepath"

	"subtitlecat/internal/logging"
	"subtitlecat/internal/media/ffprobe"
	"subtitlecat/internal/toolexec"
)

// StreamProber lists the subtitle streams of a video. Implementations never
// fail; problems surface as an empty list.
type StreamProber interface {
	Probe(ctx context.Context, video string) []ffprobe.SubtitleStream
}

// Prober runs ffprobe and logs failures instead of returning them.
type Prober struct {
	runner toolexec.Runner
	binary string
	logger *slog.Logger
}

// NewProber builds a Prober around runner and the ffprobe binary.
func NewProber(runner toolexec.Runner, binary string, logger *slog.Logger) *Prober {
	return &Prober{
		runner: runner,
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffprobe"),
	}
}

// Probe returns the subtitle streams of video, or nil when ffprobe fails.
func (p *Prober) Probe(ctx context.Context, video string) []ffprobe.SubtitleStream {
	streams, err := ffprobe.SubtitleStreams(ctx, p.runner, p.binary, video)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "ffprobe failed", "probe_failed",
			logging.String(logging.FieldVideo, filepath.Base(video)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "video treated as having no subtitle streams"),
			logging.String(logging.FieldErrorHint, "check that the file is a readable media container"),
		)
		return nil
	}
	return streams
}
