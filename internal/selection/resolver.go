package selection

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"subtitlecat/internal/language"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/media/ffprobe"
	"subtitlecat/internal/prompt"
	"subtitlecat/internal/services"
)

// Asker delivers a prompt to the operator and waits for the answer.
type Asker interface {
	Ask(ctx context.Context, req *prompt.Request) ([]string, error)
}

// Resolver applies the default-language policy with operator fallback.
type Resolver struct {
	asker  Asker
	logger *slog.Logger
}

// NewResolver builds a resolver. A nil logger discards output.
func NewResolver(asker Asker, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{asker: asker, logger: logger}
}

// Resolve picks the streams of video to extract. Streams matching defaults
// are returned directly. When nothing matches, including when defaults is
// empty, the operator chooses from every stream and the confirmed subset is
// returned. An empty result means the operator chose to skip the video.
func (r *Resolver) Resolve(ctx context.Context, video string, streams []ffprobe.SubtitleStream, defaults []string) ([]ffprobe.SubtitleStream, error) {
	if len(streams) == 0 {
		return nil, nil
	}
	if matches := Match(streams, defaults); len(matches) > 0 {
		return matches, nil
	}

	r.logger.Info("operator must choose subtitle streams",
		logging.String(logging.FieldVideo, filepath.Base(video)),
		logging.Int("streams", len(streams)),
	)
	req := prompt.NewRequest("Choose subtitle streams to extract", video, streamOptions(streams, nil))
	req.ConfirmEmpty = true
	answer, err := r.ask(ctx, req)
	if err != nil {
		return nil, err
	}
	return pick(streams, answer), nil
}

// ChooseDefaults runs the default-language setup flow on a sample video.
// English streams start checked and an empty answer is refused. The result
// is the unique language tags of the chosen streams in probe order.
func (r *Resolver) ChooseDefaults(ctx context.Context, sample string, streams []ffprobe.SubtitleStream) ([]string, error) {
	if len(streams) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "defaults", "probe sample", "no subtitle streams found", nil)
	}
	req := prompt.NewRequest("Choose default subtitle languages", sample, streamOptions(streams, func(s ffprobe.SubtitleStream) bool {
		return s.Language != nil && language.Equivalent(*s.Language, "eng")
	}))
	req.RequireSelection = true
	answer, err := r.ask(ctx, req)
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, stream := range pick(streams, answer) {
		if stream.Language == nil || *stream.Language == "" {
			continue
		}
		tags = append(tags, *stream.Language)
	}
	tags = language.NormalizeList(tags)
	if len(tags) == 0 {
		return nil, services.Wrap(services.ErrValidation, "defaults", "choose", "chosen streams carry no language tag", nil)
	}
	return tags, nil
}

func (r *Resolver) ask(ctx context.Context, req *prompt.Request) ([]string, error) {
	if r.asker == nil {
		return nil, services.Wrap(services.ErrConfiguration, "selection", "ask", "no operator prompt available", nil)
	}
	answer, err := r.asker.Ask(ctx, req)
	if err != nil {
		return nil, services.Wrap(services.ErrCancelled, "selection", "ask", "prompt abandoned", err)
	}
	return answer, nil
}

func streamOptions(streams []ffprobe.SubtitleStream, checked func(ffprobe.SubtitleStream) bool) []prompt.Option {
	options := make([]prompt.Option, 0, len(streams))
	for _, s := range streams {
		lang := s.LanguageOr("?")
		label := fmt.Sprintf("stream %s  %s", s.Index, lang)
		if name := language.DisplayName(s.LanguageOr("")); s.Language != nil && name != "" && name != lang {
			label = fmt.Sprintf("%s (%s)", label, name)
		}
		opt := prompt.Option{ID: s.Index, Label: label, Detail: s.TitleOr("")}
		if checked != nil {
			opt.Checked = checked(s)
		}
		options = append(options, opt)
	}
	return options
}

func pick(streams []ffprobe.SubtitleStream, ids []string) []ffprobe.SubtitleStream {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []ffprobe.SubtitleStream
	for _, s := range streams {
		if _, ok := want[s.Index]; ok {
			out = append(out, s)
		}
	}
	return out
}
