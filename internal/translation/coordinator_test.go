package translation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"subtitlecat/internal/jobstate"
	"subtitlecat/internal/services"
	"subtitlecat/internal/testsupport"
)

type fakePool struct {
	n        int
	persists atomic.Int32
	err      error
}

func (p *fakePool) Len() int { return p.n }

func (p *fakePool) Persist() error {
	p.persists.Add(1)
	return p.err
}

func waitResult(t *testing.T, done <-chan Result) Result {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
		return Result{}
	}
}

func TestValidateRejectsWithoutMutation(t *testing.T) {
	state := jobstate.New()
	noop := func(context.Context, []string, string, func(string), func() bool) error { return nil }
	tests := []struct {
		name string
		pool *fakePool
		req  Request
	}{
		{name: "no files", pool: &fakePool{n: 1}, req: Request{TargetCode: "zh"}},
		{name: "no keys", pool: &fakePool{}, req: Request{Files: []string{"a.srt"}, TargetCode: "zh"}},
		{name: "no target", pool: &fakePool{n: 1}, req: Request{Files: []string{"a.srt"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(state, tt.pool, noop, nil)
			done, err := c.Toggle(context.Background(), tt.req)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if done != nil {
				t.Fatal("no batch should start")
			}
			if snap := state.Snapshot(); snap != (jobstate.Snapshot{}) {
				t.Fatalf("state mutated: %+v", snap)
			}
			if tt.pool.persists.Load() != 0 {
				t.Fatal("keys must not be persisted on rejection")
			}
		})
	}
}

func TestToggleRunsBatch(t *testing.T) {
	logger, hub := testsupport.NewLogger(t)
	state := jobstate.New()
	pool := &fakePool{n: 2}
	var gotFiles []string
	var gotTarget string
	translate := func(_ context.Context, files []string, target string, log func(string), shouldStop func() bool) error {
		gotFiles, gotTarget = files, target
		log("translated a.srt")
		if shouldStop() {
			t.Error("shouldStop should be false")
		}
		return nil
	}
	c := NewCoordinator(state, pool, translate, logger)
	done, err := c.Toggle(context.Background(), Request{Files: []string{"a.srt"}, TargetCode: "ja"})
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	result := waitResult(t, done)
	if result.Status != services.StatusCompleted || result.Err != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(gotFiles) != 1 || gotTarget != "ja" {
		t.Fatalf("translator got %v %q", gotFiles, gotTarget)
	}
	if pool.persists.Load() != 1 {
		t.Fatalf("expected keys persisted once, got %d", pool.persists.Load())
	}
	if snap := state.Snapshot(); !snap.Idle() {
		t.Fatalf("expected idle after batch, got %+v", snap)
	}
	for _, msg := range []string{"keys saved", "translated a.srt", "translation finished"} {
		if !testsupport.HasMessage(hub, msg) {
			t.Fatalf("missing %q in %v", msg, testsupport.Messages(hub))
		}
	}
}

func TestToggleStopsRunningBatch(t *testing.T) {
	logger, hub := testsupport.NewLogger(t)
	state := jobstate.New()
	started := make(chan struct{})
	translate := func(_ context.Context, files []string, _ string, _ func(string), shouldStop func() bool) error {
		close(started)
		for !shouldStop() {
			time.Sleep(time.Millisecond)
		}
		return nil
	}
	c := NewCoordinator(state, &fakePool{n: 1}, translate, logger)
	req := Request{Files: []string{"a.srt", "b.srt"}, TargetCode: "zh"}
	done, err := c.Toggle(context.Background(), req)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	<-started

	again, err := c.Toggle(context.Background(), req)
	if err != nil || again != nil {
		t.Fatalf("second toggle should request stop, got %v %v", again, err)
	}
	result := waitResult(t, done)
	if result.Status != services.StatusStopped {
		t.Fatalf("expected stopped, got %+v", result)
	}
	if snap := state.Snapshot(); !snap.Idle() || snap.CancelRequested {
		t.Fatalf("expected clean idle state, got %+v", snap)
	}
	if !testsupport.HasMessage(hub, "stopping translation") || !testsupport.HasMessage(hub, "translation stopped") {
		t.Fatalf("unexpected log: %v", testsupport.Messages(hub))
	}
}

func TestRunRecoversPanic(t *testing.T) {
	logger, hub := testsupport.NewLogger(t)
	state := jobstate.New()
	state.TryStartTranslation()
	c := NewCoordinator(state, &fakePool{n: 1}, func(context.Context, []string, string, func(string), func() bool) error {
		panic("boom")
	}, logger)

	result := c.Run(context.Background(), Request{Files: []string{"a.srt"}, TargetCode: "zh"})
	if result.Status != services.StatusFailed || result.Err == nil {
		t.Fatalf("expected failed result, got %+v", result)
	}
	if state.Snapshot().Translating {
		t.Fatal("translation flag must be released after a panic")
	}
	if !testsupport.HasMessage(hub, "translation failed") {
		t.Fatalf("missing failure log: %v", testsupport.Messages(hub))
	}
}

func TestRunReportsFailure(t *testing.T) {
	state := jobstate.New()
	state.TryStartTranslation()
	boom := errors.New("all API keys exhausted")
	c := NewCoordinator(state, &fakePool{n: 1}, func(context.Context, []string, string, func(string), func() bool) error {
		return boom
	}, nil)
	result := c.Run(context.Background(), Request{Files: []string{"a.srt"}, TargetCode: "zh"})
	if result.Status != services.StatusFailed || !errors.Is(result.Err, boom) {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestToggleFailsWhenKeysCannotPersist(t *testing.T) {
	state := jobstate.New()
	pool := &fakePool{n: 1, err: errors.New("read-only filesystem")}
	c := NewCoordinator(state, pool, func(context.Context, []string, string, func(string), func() bool) error {
		t.Fatal("translator must not run")
		return nil
	}, nil)
	if _, err := c.Toggle(context.Background(), Request{Files: []string{"a.srt"}, TargetCode: "zh"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !state.Snapshot().Idle() {
		t.Fatal("flag must be released when persisting fails")
	}
}

func TestRunSkipsExistingTranslations(t *testing.T) {
	logger, hub := testsupport.NewLogger(t)
	state := jobstate.New()
	state.TryStartTranslation()
	var got []string
	c := NewCoordinator(state, &fakePool{n: 1}, func(_ context.Context, files []string, _ string, _ func(string), _ func() bool) error {
		got = files
		return nil
	}, logger)

	result := c.Run(context.Background(), Request{
		Files:      []string{"/lib/movie.eng.srt", "/lib/movie.eng.zh.srt", "/lib/show.ZH.srt"},
		TargetCode: "zh",
	})
	if result.Status != services.StatusCompleted || result.Files != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(got) != 1 || got[0] != "/lib/movie.eng.srt" {
		t.Fatalf("translator got %v", got)
	}
	if !testsupport.HasMessage(hub, "skip movie.eng.zh.srt: already a zh translation") {
		t.Fatalf("missing skip log: %v", testsupport.Messages(hub))
	}
}

func TestRunWithOnlyTranslatedInputs(t *testing.T) {
	logger, hub := testsupport.NewLogger(t)
	state := jobstate.New()
	state.TryStartTranslation()
	c := NewCoordinator(state, &fakePool{n: 1}, func(context.Context, []string, string, func(string), func() bool) error {
		t.Fatal("translator must not run")
		return nil
	}, logger)

	result := c.Run(context.Background(), Request{Files: []string{"movie.zh.srt"}, TargetCode: "zh"})
	if result.Status != services.StatusCompleted || result.Files != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if state.Snapshot().Translating {
		t.Fatal("translation flag must be released")
	}
	if !testsupport.HasMessage(hub, "nothing to translate") {
		t.Fatalf("missing log: %v", testsupport.Messages(hub))
	}
}

func TestIsOutputFor(t *testing.T) {
	tests := []struct {
		file, code string
		want       bool
	}{
		{"movie.zh.srt", "zh", true},
		{"dir/movie.eng.ZH.SRT", "zh", true},
		{"movie.eng.srt", "zh", false},
		{"moviezh.srt", "zh", false},
		{"movie.zh.srt", "", false},
	}
	for _, tt := range tests {
		if got := IsOutputFor(tt.file, tt.code); got != tt.want {
			t.Errorf("IsOutputFor(%q, %q) = %v, want %v", tt.file, tt.code, got, tt.want)
		}
	}
}
