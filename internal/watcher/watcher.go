// Package watcher reports library changes by watching a directory tree with
// fsnotify. Bursts of events are coalesced into one callback per quiet
// period.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"subtitlecat/internal/logging"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Options tunes a Watcher.
type Options struct {
	Debounce time.Duration
	// Extensions limits file events to these lowercase extensions. Directory
	// events always count. Empty means every file.
	Extensions []string
}

// ChangeFunc receives the paths that changed during one quiet period.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher watches root and every directory below it.
type Watcher struct {
	root     string
	opts     Options
	onChange ChangeFunc
	logger   *slog.Logger
	fs       *fsnotify.Watcher
	exts     map[string]struct{}
}

// New adds root and its subdirectories to a fresh fsnotify watcher.
func New(root string, opts Options, onChange ChangeFunc, logger *slog.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watcher: change callback is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		opts:     opts,
		onChange: onChange,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		fs:       fsw,
		exts:     make(map[string]struct{}, len(opts.Extensions)),
	}
	for _, ext := range opts.Extensions {
		w.exts[strings.ToLower(ext)] = struct{}{}
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("add watch path: %w", err)
			}
			w.logger.Debug("skipping unwatchable directory", logging.String("path", path), logging.Error(err))
		}
		return nil
	})
}

// Run delivers debounced changes until ctx ends. It closes the underlying
// watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	w.logger.Info("watching library", logging.String("root", w.root))

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			clear(pending)
			w.onChange(ctx, paths)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some changes may be missed"),
			)
		}
	}
}

// relevant filters events and starts watching directories created under root.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Debug("watch new directory failed", logging.String("path", event.Name), logging.Error(err))
			}
			return true
		}
	}
	if len(w.exts) == 0 {
		return true
	}
	_, ok := w.exts[strings.ToLower(filepath.Ext(event.Name))]
	return ok
}
