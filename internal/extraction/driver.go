package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"subtitlecat/internal/logging"
	"subtitlecat/internal/media/ffmpeg"
	"subtitlecat/internal/media/ffprobe"
	"subtitlecat/internal/services"
	"subtitlecat/internal/toolexec"
)

// StreamResolver chooses which streams of a video to extract.
type StreamResolver interface {
	Resolve(ctx context.Context, video string, streams []ffprobe.SubtitleStream, defaults []string) ([]ffprobe.SubtitleStream, error)
}

// Request describes one extraction batch.
type Request struct {
	// Videos are absolute paths processed in order.
	Videos []string
	// Defaults returns the current default-language tags. It is read once
	// per video so changes made mid-batch apply to the next video.
	Defaults func() []string
	// OnComplete, when set, receives the report after the batch ends.
	OnComplete func(Report)
}

// Failure records one stream that could not be extracted.
type Failure struct {
	Video    string
	Index    string
	Language string
	Err      error
}

// Report summarizes a finished batch.
type Report struct {
	Produced  []string
	Failures  []Failure
	Skipped   []string
	Cancelled bool
}

// Status maps the report to a history status label.
func (r Report) Status() string {
	if r.Cancelled {
		return services.StatusStopped
	}
	return services.StatusCompleted
}

// Driver runs extraction batches.
type Driver struct {
	prober   StreamProber
	resolver StreamResolver
	runner   toolexec.Runner
	ffmpeg   string
	logger   *slog.Logger
}

// NewDriver wires a driver. ffmpegBinary defaults to "ffmpeg".
func NewDriver(prober StreamProber, resolver StreamResolver, runner toolexec.Runner, ffmpegBinary string, logger *slog.Logger) *Driver {
	return &Driver{
		prober:   prober,
		resolver: resolver,
		runner:   runner,
		ffmpeg:   ffmpegBinary,
		logger:   logging.NewComponentLogger(logger, "extraction"),
	}
}

// Run processes req.Videos serially. It never returns an error: per-stream
// failures land in the report and the log.
func (d *Driver) Run(ctx context.Context, req Request, shouldStop func() bool) Report {
	logger := logging.WithContext(ctx, d.logger)
	stopped := func() bool {
		return ctx.Err() != nil || (shouldStop != nil && shouldStop())
	}

	var report Report
	finish := func() Report {
		if report.Cancelled {
			logger.Warn("extraction stopped",
				logging.String(logging.FieldEventType, "extraction_stopped"),
				logging.Int("produced", len(report.Produced)),
			)
		} else {
			logger.Info("all extraction tasks done",
				logging.Int("produced", len(report.Produced)),
				logging.Int("failed", len(report.Failures)),
				logging.Int("skipped", len(report.Skipped)),
			)
		}
		if req.OnComplete != nil {
			req.OnComplete(report)
		}
		return report
	}

	for position, video := range req.Videos {
		if stopped() {
			report.Cancelled = true
			return finish()
		}
		name := filepath.Base(video)
		streams := d.prober.Probe(ctx, video)
		if len(streams) == 0 {
			logger.Warn("no subtitle streams found",
				logging.String(logging.FieldVideo, name),
				logging.String(logging.FieldEventType, "no_subtitle_streams"),
			)
			report.Skipped = append(report.Skipped, video)
			continue
		}

		var defaults []string
		if req.Defaults != nil {
			defaults = req.Defaults()
		}
		chosen, err := d.resolver.Resolve(ctx, video, streams, defaults)
		if err != nil {
			if errors.Is(err, services.ErrCancelled) || ctx.Err() != nil {
				report.Cancelled = true
				return finish()
			}
			logging.ErrorWithContext(logger, "stream selection failed", "selection_failed",
				logging.String(logging.FieldVideo, name),
				logging.Error(err),
			)
			report.Skipped = append(report.Skipped, video)
			continue
		}
		if len(chosen) == 0 {
			logging.WarnWithContext(logger, "no streams chosen; skipping video", "video_skipped",
				logging.String(logging.FieldVideo, name),
				logging.String(logging.FieldImpact, "no subtitles extracted for this video"),
				logging.String(logging.FieldErrorHint, "re-run extraction and pick at least one stream"),
			)
			report.Skipped = append(report.Skipped, video)
			continue
		}

		for _, stream := range chosen {
			if stopped() {
				report.Cancelled = true
				return finish()
			}
			lang := stream.LanguageOr(ffmpeg.UnknownLanguage)
			output := ffmpeg.OutputPath(video, lang)
			args := ffmpeg.ExtractArgs(video, stream.Index, output)
			logger.Info(formatCommand(position+1, d.binary(), args),
				logging.String(logging.FieldVideo, name),
				logging.String(logging.FieldLanguage, lang),
			)
			if err := ffmpeg.ExtractSubtitle(ctx, d.runner, d.binary(), video, stream.Index, output); err != nil {
				if ctx.Err() != nil {
					report.Cancelled = true
					return finish()
				}
				logging.ErrorWithContext(logger, "extraction failed", "extraction_failed",
					logging.String(logging.FieldVideo, name),
					logging.String(logging.FieldLanguage, lang),
					logging.String("stream", stream.Index),
					logging.Error(err),
				)
				report.Failures = append(report.Failures, Failure{Video: video, Index: stream.Index, Language: lang, Err: err})
				continue
			}
			report.Produced = append(report.Produced, output)
		}
	}
	return finish()
}

func (d *Driver) binary() string {
	if d.ffmpeg == "" {
		return "ffmpeg"
	}
	return d.ffmpeg
}

func formatCommand(position int, binary string, args []string) string {
	return fmt.Sprintf("[%d] %s", position, toolexec.CommandLine(binary, args...))
}
