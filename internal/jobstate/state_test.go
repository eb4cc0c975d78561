package jobstate

import (
	"sync"
	"testing"
)

func TestStandaloneExtractionLifecycle(t *testing.T) {
	s := New()
	if !s.TryStartExtraction() {
		t.Fatal("expected extraction to start from idle")
	}
	if s.TryStartExtraction() {
		t.Fatal("second extraction must be rejected")
	}
	if !s.RequestStop() {
		t.Fatal("RequestStop should report an active batch")
	}
	if !s.CancelRequested() {
		t.Fatal("expected cancel flag set")
	}
	s.FinishExtraction()
	if snap := s.Snapshot(); !snap.Idle() || snap.CancelRequested {
		t.Fatalf("expected idle with cancel cleared, got %+v", snap)
	}
}

func TestPipelineKeepsCancelUntilBothFinish(t *testing.T) {
	s := New()
	if !s.TryStartPipeline() {
		t.Fatal("expected pipeline to start")
	}
	if snap := s.Snapshot(); !snap.Extracting || !snap.Translating {
		t.Fatalf("pipeline should reserve both flags, got %+v", snap)
	}
	if s.TryStartTranslation() || s.TryStartExtraction() || s.TryStartPipeline() {
		t.Fatal("starts must be rejected while the pipeline runs")
	}
	s.RequestStop()
	s.FinishExtraction()
	if !s.CancelRequested() {
		t.Fatal("cancel must survive while translation is still reserved")
	}
	s.FinishTranslation()
	if snap := s.Snapshot(); !snap.Idle() || snap.CancelRequested {
		t.Fatalf("expected idle with cancel cleared, got %+v", snap)
	}
}

func TestStaleStopClearedOnIdleStart(t *testing.T) {
	s := New()
	if s.RequestStop() {
		t.Fatal("RequestStop should report nothing active")
	}
	if !s.TryStartTranslation() {
		t.Fatal("expected translation to start")
	}
	if s.CancelRequested() {
		t.Fatal("idle start must clear a stale stop request")
	}
}

func TestStartDuringOtherBatchKeepsCancel(t *testing.T) {
	s := New()
	s.TryStartExtraction()
	s.RequestStop()
	if !s.TryStartTranslation() {
		t.Fatal("translation may start alongside a standalone extraction")
	}
	if !s.CancelRequested() {
		t.Fatal("non-idle start must not clear the pending stop")
	}
	s.FinishTranslation()
	if !s.CancelRequested() {
		t.Fatal("cancel must stay while extraction is active")
	}
	s.FinishExtraction()
	if s.CancelRequested() {
		t.Fatal("cancel must clear once idle")
	}
}

func TestConcurrentStartsReserveOnce(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryStartPipeline() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one pipeline start, got %d", wins)
	}
}
