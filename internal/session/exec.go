package session

import (
	"context"
	"time"
)

// Exec runs one batch outside the shell: start launches it, then prompts
// are answered from In and logs printed until no batch is running. ctx
// cancellation stops the batch and waits for it to unwind.
func (s *Session) Exec(ctx context.Context, start func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.readLines(ctx)

	ticker := time.NewTicker(s.opts.DrainInterval)
	defer ticker.Stop()

	if err := start(ctx); err != nil {
		s.shutdown(cancel)
		return err
	}
	s.wait(ctx, ticker)
	s.shutdown(cancel)
	return ctx.Err()
}
