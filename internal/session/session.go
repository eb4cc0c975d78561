package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"subtitlecat/internal/logging"
	"subtitlecat/internal/prompt"
	"subtitlecat/internal/watcher"
	"subtitlecat/internal/workflow"
)

// Options tunes a Session.
type Options struct {
	In  io.Reader
	Out io.Writer
	// DrainInterval and DrainBatch bound how many log events are printed
	// per tick.
	DrainInterval time.Duration
	DrainBatch    int
	Colorize      bool
	// Interactive prints an input prompt; set it when In is a terminal.
	Interactive bool
	// Watch refreshes the file lists when the library directory changes.
	Watch           bool
	WatchExtensions []string
}

// Session is one interactive shell.
type Session struct {
	manager *workflow.Manager
	broker  *prompt.Broker
	hub     *logging.StreamHub
	logger  *slog.Logger
	opts    Options

	lines  chan string
	cursor uint64
	bg     sync.WaitGroup
	tasks  atomic.Int32

	watchCancel context.CancelFunc
}

// New wires a session. broker must be the asker the manager was built with.
func New(manager *workflow.Manager, broker *prompt.Broker, hub *logging.StreamHub, logger *slog.Logger, opts Options) *Session {
	if opts.DrainInterval <= 0 {
		opts.DrainInterval = 50 * time.Millisecond
	}
	if opts.DrainBatch <= 0 {
		opts.DrainBatch = 10
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Session{
		manager: manager,
		broker:  broker,
		hub:     hub,
		logger:  logging.NewComponentLogger(logger, "session"),
		opts:    opts,
		lines:   make(chan string),
	}
}

// Run serves commands until quit, end of input or ctx cancellation. Running
// batches are stopped and awaited before it returns.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.readLines(ctx)

	ticker := time.NewTicker(s.opts.DrainInterval)
	defer ticker.Stop()

	s.println("SubtitleCat shell. Type `help` for commands.")
	if root := s.manager.Settings().Root(); root != "" {
		s.println("Directory: " + root)
		s.startWatch(ctx, root)
	}
	s.showPrompt()

	for {
		select {
		case <-ctx.Done():
			s.shutdown(cancel)
			return nil
		case <-ticker.C:
			s.drain()
		case req := <-s.broker.Requests():
			s.answer(ctx, req, ticker)
			s.showPrompt()
		case line, ok := <-s.lines:
			if !ok {
				s.shutdown(cancel)
				return nil
			}
			if quit := s.dispatch(ctx, line, ticker); quit {
				s.shutdown(cancel)
				return nil
			}
			s.showPrompt()
		}
	}
}

func (s *Session) readLines(ctx context.Context) {
	defer close(s.lines)
	if s.opts.In == nil {
		return
	}
	scanner := bufio.NewScanner(s.opts.In)
	for scanner.Scan() {
		select {
		case s.lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

// drain prints at most DrainBatch pending log events.
func (s *Session) drain() int {
	if s.hub == nil {
		return 0
	}
	events, _, err := s.hub.Fetch(context.Background(), s.cursor, s.opts.DrainBatch, false)
	if err != nil || len(events) == 0 {
		return 0
	}
	for _, evt := range events {
		fmt.Fprintln(s.opts.Out, eventLine(evt, s.opts.Colorize))
	}
	s.cursor = events[len(events)-1].Sequence
	return len(events)
}

func (s *Session) drainAll() {
	for s.drain() > 0 {
	}
}

// shutdown stops batches, cancels blocked prompts and tool processes, and
// flushes the remaining log lines.
func (s *Session) shutdown(cancel context.CancelFunc) {
	if s.manager.Stop(context.Background()) {
		s.drainAll()
		s.println("Stopping running batches...")
	}
	cancel()
	s.manager.Wait()
	s.bg.Wait()
	s.drainAll()
}

// wait serves prompts and logs until no batch is running.
func (s *Session) wait(ctx context.Context, ticker *time.Ticker) {
	for {
		s.drainAll()
		if s.manager.Status().Jobs.Idle() && s.backgroundIdle() {
			// Batch goroutines still refresh lists and record history after
			// their flag drops.
			s.manager.Wait()
			s.drainAll()
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case req := <-s.broker.Requests():
			s.answer(ctx, req, ticker)
		}
	}
}

// backgroundIdle reports whether session-owned tasks finished. The
// directory watcher does not count.
func (s *Session) backgroundIdle() bool {
	return s.tasks.Load() == 0
}

// goTask runs fn as a tracked task that `wait` waits for.
func (s *Session) goTask(fn func()) {
	s.tasks.Add(1)
	s.goBackground(func() {
		defer s.tasks.Add(-1)
		fn()
	})
}

func (s *Session) goBackground(fn func()) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.ErrorWithContext(s.logger, "background task panicked", "session_panic",
					logging.String("panic", fmt.Sprint(r)),
				)
			}
		}()
		fn()
	}()
}

func (s *Session) startWatch(ctx context.Context, root string) {
	if !s.opts.Watch {
		return
	}
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	catalog := s.manager.Settings().Catalog()
	w, err := watcher.New(root, watcher.Options{Extensions: s.opts.WatchExtensions}, func(ctx context.Context, paths []string) {
		inv, err := catalog.Refresh()
		if err != nil {
			s.logger.Debug("auto refresh failed", logging.Error(err))
			return
		}
		s.logger.Info("library changed; lists refreshed",
			logging.Int("videos", len(inv.Videos)),
			logging.Int("subtitles", len(inv.Subtitles)),
		)
	}, s.logger)
	if err != nil {
		logging.WarnWithContext(s.logger, "cannot watch directory", "watch_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file lists refresh only after batches or `ls`"),
		)
		return
	}
	watchCtx, cancel := context.WithCancel(ctx)
	s.watchCancel = cancel
	s.goBackground(func() {
		if err := w.Run(watchCtx); err != nil {
			s.logger.Debug("watcher ended", logging.Error(err))
		}
	})
}

func (s *Session) showPrompt() {
	if s.opts.Interactive {
		fmt.Fprint(s.opts.Out, "subtitlecat> ")
	}
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.opts.Out, line)
}

func (s *Session) warn(err error) {
	msg := strings.TrimSpace(err.Error())
	fmt.Fprintln(s.opts.Out, paint(ansiYellow, "warning: "+msg, s.opts.Colorize))
}

func (s *Session) print(text string) {
	fmt.Fprint(s.opts.Out, text)
}
