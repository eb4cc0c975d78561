package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"subtitlecat/internal/language"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/services"
	"subtitlecat/internal/subtitles"
)

const systemPrompt = `You are a professional subtitle translator.
Translate every item of the JSON array you receive into %s.
Keep the meaning, tone and any line breaks ("\n") of each item. Do not merge, split, reorder or skip items.
Answer with a JSON array of strings only, with exactly %d items.`

// Config tunes the translator.
type Config struct {
	Model          string
	BatchSize      int
	RequestTimeout time.Duration
	SkipExisting   bool
	// DropAds removes advertisement cues before translation. Every removed
	// cue is reported through the operator log.
	DropAds bool
}

// KeySource supplies the current API keys in rotation order.
type KeySource interface {
	List() []string
}

// Translator translates SRT files through Gemini.
type Translator struct {
	cfg    Config
	keys   KeySource
	gen    Generator
	logger *slog.Logger

	mu         sync.Mutex
	currentKey int
}

// Option customizes a Translator.
type Option func(*Translator)

// WithGenerator replaces the Gemini client, mainly for tests.
func WithGenerator(gen Generator) Option {
	return func(t *Translator) {
		t.gen = gen
	}
}

// New builds a Translator.
func New(cfg Config, keys KeySource, logger *slog.Logger, opts ...Option) *Translator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 40
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	t := &Translator{
		cfg:    cfg,
		keys:   keys,
		logger: logging.NewComponentLogger(logger, "gemini"),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.gen == nil {
		t.gen = newGenaiGenerator()
	}
	return t
}

// OutputPath returns <input-without-.srt>.<code>.srt.
func OutputPath(input, code string) string {
	stem := input
	if strings.EqualFold(filepath.Ext(input), ".srt") {
		stem = input[:len(input)-len(filepath.Ext(input))]
	}
	return stem + "." + code + ".srt"
}

// Translate translates files one at a time. It returns nil when stopped via
// shouldStop; failed files are logged and reported together at the end.
func (t *Translator) Translate(ctx context.Context, files []string, targetCode string, log func(string), shouldStop func() bool) error {
	if log == nil {
		log = func(string) {}
	}
	if shouldStop == nil {
		shouldStop = func() bool { return false }
	}
	keys := t.keys.List()
	if len(keys) == 0 {
		return services.Wrap(services.ErrValidation, "translation", "start", "no API keys configured", nil)
	}

	var failed []string
	for i, file := range files {
		if shouldStop() || ctx.Err() != nil {
			return nil
		}
		name := filepath.Base(file)
		output := OutputPath(file, targetCode)
		if t.cfg.SkipExisting {
			if _, err := os.Stat(output); err == nil {
				log(fmt.Sprintf("[%d/%d] skip %s: %s already exists", i+1, len(files), name, filepath.Base(output)))
				continue
			}
		}
		log(fmt.Sprintf("[%d/%d] translating %s", i+1, len(files), name))
		done, err := t.translateFile(ctx, keys, file, output, targetCode, log, shouldStop)
		if err != nil {
			logging.ErrorWithContext(logging.WithContext(ctx, t.logger), "file translation failed", "translation_file_failed",
				logging.String("file", name),
				logging.Error(err),
			)
			failed = append(failed, name)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			continue
		}
		if !done {
			return nil
		}
		log(fmt.Sprintf("[%d/%d] wrote %s", i+1, len(files), filepath.Base(output)))
	}
	if len(failed) > 0 {
		return services.Wrap(services.ErrExternalTool, "translation", "translate", fmt.Sprintf("%d of %d files failed: %s", len(failed), len(files), strings.Join(failed, ", ")), nil)
	}
	return nil
}

// translateFile returns false without writing anything when stopped mid-file.
func (t *Translator) translateFile(ctx context.Context, keys []string, input, output, targetCode string, log func(string), shouldStop func() bool) (bool, error) {
	cues, err := subtitles.ParseFile(input)
	if err != nil {
		return false, err
	}
	cues, ads := subtitles.Clean(cues, t.cfg.DropAds)
	for _, ad := range ads {
		log(fmt.Sprintf("dropped advertisement cue %d from %s: %q", ad.Index, filepath.Base(input), ad.Text))
	}
	if len(cues) == 0 {
		return false, subtitles.ErrNoCues
	}

	for start := 0; start < len(cues); start += t.cfg.BatchSize {
		if shouldStop() || ctx.Err() != nil {
			return false, nil
		}
		end := min(start+t.cfg.BatchSize, len(cues))
		texts := make([]string, 0, end-start)
		for _, cue := range cues[start:end] {
			texts = append(texts, cue.Text)
		}
		translated, err := t.translateBatch(ctx, keys, texts, targetCode)
		if err != nil {
			return false, fmt.Errorf("cues %d-%d: %w", start+1, end, err)
		}
		for i := range translated {
			cues[start+i].Text = translated[i]
		}
	}

	tmp := output + ".partial"
	if err := subtitles.WriteFile(tmp, cues); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, output); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("finalize %s: %w", filepath.Base(output), err)
	}
	return true, nil
}

func (t *Translator) translateBatch(ctx context.Context, keys []string, texts []string, targetCode string) ([]string, error) {
	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	system := fmt.Sprintf(systemPrompt, language.DisplayName(targetCode), len(texts))

	var lastErr error
	for range keys {
		key, slot := t.key(keys)
		reqCtx := ctx
		var cancel context.CancelFunc
		if t.cfg.RequestTimeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, t.cfg.RequestTimeout)
		}
		raw, err := t.gen.Generate(reqCtx, key, t.cfg.Model, system, string(payload))
		if cancel != nil {
			cancel()
		}
		if err != nil {
			if isRateLimited(err) {
				logging.WarnWithContext(logging.WithContext(ctx, t.logger), "API key rate limited; rotating", "key_rotated",
					logging.Int("key", slot+1),
					logging.String(logging.FieldImpact, "request retried with the next key"),
					logging.String(logging.FieldErrorHint, "add more keys or wait for the quota to reset"),
				)
				t.rotate(len(keys))
				lastErr = err
				continue
			}
			return nil, err
		}
		return decodeBatch(raw, len(texts))
	}
	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (t *Translator) key(keys []string) (string, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.currentKey >= len(keys) {
		t.currentKey = 0
	}
	return keys[t.currentKey], t.currentKey
}

func (t *Translator) rotate(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentKey = (t.currentKey + 1) % n
}

func decodeBatch(raw string, want int) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	var out []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return nil, fmt.Errorf("decode model answer: %w", err)
	}
	if len(out) != want {
		return nil, fmt.Errorf("model returned %d items, want %d", len(out), want)
	}
	return out, nil
}
