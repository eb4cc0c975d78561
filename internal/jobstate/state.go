// Package jobstate tracks which batches are running and whether the operator
// asked them to stop.
//
// Flags change only through the transition methods below. The stop request
// is cleared when the last active batch finishes, and when a batch starts
// from fully idle, so a stale request never leaks into the next run.
package jobstate

import "sync"

// Snapshot is a point-in-time copy of the flags.
type Snapshot struct {
	Extracting      bool
	Translating     bool
	CancelRequested bool
}

// Idle reports whether no batch is active.
func (s Snapshot) Idle() bool {
	return !s.Extracting && !s.Translating
}

// State is safe for concurrent use.
type State struct {
	mu              sync.Mutex
	extracting      bool
	translating     bool
	cancelRequested bool
}

// New returns an idle State.
func New() *State {
	return &State{}
}

// TryStartExtraction reserves the extraction flag. It fails when an
// extraction is already running.
func (s *State) TryStartExtraction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extracting {
		return false
	}
	s.clearCancelIfIdleLocked()
	s.extracting = true
	return true
}

// TryStartTranslation reserves the translation flag. It fails when a
// translation is already running.
func (s *State) TryStartTranslation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.translating {
		return false
	}
	s.clearCancelIfIdleLocked()
	s.translating = true
	return true
}

// TryStartPipeline reserves both flags for a one-click run. It fails unless
// fully idle.
func (s *State) TryStartPipeline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extracting || s.translating {
		return false
	}
	s.cancelRequested = false
	s.extracting = true
	s.translating = true
	return true
}

// RequestStop raises the stop flag and reports whether any batch was active
// to observe it.
func (s *State) RequestStop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelRequested = true
	return s.extracting || s.translating
}

// FinishExtraction releases the extraction flag.
func (s *State) FinishExtraction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracting = false
	s.clearCancelIfIdleLocked()
}

// FinishTranslation releases the translation flag.
func (s *State) FinishTranslation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translating = false
	s.clearCancelIfIdleLocked()
}

// CancelRequested reports whether a stop was requested. It is the shouldStop
// predicate handed to batch loops.
func (s *State) CancelRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelRequested
}

// Snapshot returns a copy of the flags.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Extracting:      s.extracting,
		Translating:     s.translating,
		CancelRequested: s.cancelRequested,
	}
}

func (s *State) clearCancelIfIdleLocked() {
	if !s.extracting && !s.translating {
		s.cancelRequested = false
	}
}
