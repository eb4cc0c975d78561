package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"subtitlecat/internal/history"
	"subtitlecat/internal/services"
	"subtitlecat/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.Begin(ctx, history.KindExtraction, "/media", "")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if len(run.ID) != 36 || run.Status != history.StatusRunning {
		t.Fatalf("unexpected run %+v", run)
	}
	for _, item := range []struct{ path, outcome string }{
		{"a.eng.srt", history.OutcomeProduced},
		{"b.eng.srt", history.OutcomeProduced},
		{"c.mkv", history.OutcomeFailed},
		{"d.mkv", history.OutcomeSkipped},
	} {
		if err := store.AddItem(ctx, run.ID, item.path, item.outcome, ""); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	if err := store.Finish(ctx, run.ID, services.StatusCompleted, ""); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, items, err := store.Get(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != services.StatusCompleted || got.FinishedAt.IsZero() {
		t.Fatalf("run not finished: %+v", got)
	}
	if got.Produced != 2 || got.Failed != 1 || got.Skipped != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if len(items) != 4 || items[0].Path != "a.eng.srt" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, _ := store.Begin(ctx, history.KindExtraction, "/media", "")
	second, _ := store.Begin(ctx, history.KindTranslation, "/media", "zh")

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("unexpected order %+v", runs)
	}
	if runs[0].Target != "zh" || runs[0].Kind != history.KindTranslation {
		t.Fatalf("unexpected run %+v", runs[0])
	}

	limited, err := store.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("List(1) = %v, %v", limited, err)
	}
}

func TestGetUnknownRun(t *testing.T) {
	store := openStore(t)
	_, _, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Finish(context.Background(), "nope", services.StatusFailed, ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found from Finish, got %v", err)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	run, _ := store.Begin(context.Background(), history.KindOneClick, "/media", "ko")
	_ = store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, _, err := reopened.Get(context.Background(), run.ID)
	if err != nil || got.Kind != history.KindOneClick {
		t.Fatalf("Get after reopen = %+v, %v", got, err)
	}
}

func TestPrune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	_, _ = store.Begin(ctx, history.KindExtraction, "/media", "")

	n, err := store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	runs, _ := store.List(ctx, 0)
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}

func TestRecorderTracksOutcome(t *testing.T) {
	store := openStore(t)
	logger, _ := testsupport.NewLogger(t)
	recorder := history.NewRecorder(store, logger)
	ctx := context.Background()

	tracker := recorder.Start(ctx, history.KindTranslation, "/media", "ja")
	tracker.Item(ctx, "movie.ja.srt", history.OutcomeProduced, "")
	tracker.Finish(ctx, "", services.Wrap(services.ErrCancelled, "translation", "run", "stopped", nil))

	run, _, err := store.Get(ctx, tracker.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.Status != services.StatusStopped || run.Produced != 1 {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestNilRecorderIsInert(t *testing.T) {
	var recorder *history.Recorder
	tracker := recorder.Start(context.Background(), history.KindExtraction, "", "")
	tracker.Item(context.Background(), "x", history.OutcomeProduced, "")
	tracker.Finish(context.Background(), "", nil)
	if tracker.ID() != "" {
		t.Fatal("expected empty id without a store")
	}
}
