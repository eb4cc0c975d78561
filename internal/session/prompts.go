package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"subtitlecat/internal/prompt"
)

// answer renders req and reads answers until one is accepted, input ends or
// ctx is cancelled. Log lines keep draining while the operator decides.
func (s *Session) answer(ctx context.Context, req *prompt.Request, ticker *time.Ticker) {
	s.drainAll()
	s.println(prompt.Render(req))
	for !req.Answered() {
		s.showAnswerPrompt()
		line, ok, alive := s.nextLine(ctx, ticker)
		if !alive {
			return
		}
		if !ok {
			s.answerOnEOF(req)
			return
		}
		ids, err := prompt.ParseAnswer(req, line)
		if err != nil {
			s.warn(err)
			s.println(prompt.Hint(req))
			continue
		}
		if len(ids) == 0 && req.ConfirmEmpty {
			s.println("Nothing selected. Skip this video? [y/N]")
			confirm, ok, alive := s.nextLine(ctx, ticker)
			if !alive {
				return
			}
			if ok && !isYes(confirm) {
				s.println(prompt.Hint(req))
				continue
			}
		}
		if _, err := req.Respond(ids); err != nil {
			if errors.Is(err, prompt.ErrEmptySelection) {
				s.warn(errors.New("select at least one row"))
			} else {
				s.warn(err)
			}
			s.println(prompt.Hint(req))
		}
	}
}

// answerOnEOF settles req once input has ended: an empty answer where that
// is allowed, otherwise the checked rows.
func (s *Session) answerOnEOF(req *prompt.Request) {
	if !req.RequireSelection {
		s.warn(errors.New("input closed; answering with no selection"))
		_, _ = req.Respond(nil)
		return
	}
	if pre := req.Preselected(); len(pre) > 0 {
		s.warn(errors.New("input closed; keeping the checked rows"))
		_, _ = req.Respond(pre)
		return
	}
	s.warn(errors.New("input closed; prompt left unanswered"))
}

// nextLine waits for one input line while draining logs. ok is false at end
// of input; alive is false once ctx is done.
func (s *Session) nextLine(ctx context.Context, ticker *time.Ticker) (line string, ok, alive bool) {
	for {
		select {
		case <-ctx.Done():
			return "", false, false
		case <-ticker.C:
			s.drain()
		case line, ok := <-s.lines:
			return line, ok, true
		}
	}
}

func (s *Session) showAnswerPrompt() {
	if s.opts.Interactive {
		s.print("answer> ")
	}
}

func isYes(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}
