package testsupport

import (
	"log/slog"
	"strings"
	"testing"

	"subtitlecat/internal/logging"
)

// NewLogger returns a debug-level logger whose records land only in the
// returned hub.
func NewLogger(t testing.TB) (*slog.Logger, *logging.StreamHub) {
	t.Helper()

	hub := logging.NewStreamHub(1000)
	logger, err := logging.New(logging.Options{Level: "debug", Stream: hub})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	return logger, hub
}

// Messages returns every message currently held by hub, oldest first.
func Messages(hub *logging.StreamHub) []string {
	events, _ := hub.Tail(0)
	out := make([]string, 0, len(events))
	for _, evt := range events {
		out = append(out, evt.Message)
	}
	return out
}

// HasMessage reports whether hub holds a message containing fragment.
func HasMessage(hub *logging.StreamHub, fragment string) bool {
	for _, msg := range Messages(hub) {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// CountLevel counts hub events at level (e.g. "WARN").
func CountLevel(hub *logging.StreamHub, level string) int {
	events, _ := hub.Tail(0)
	n := 0
	for _, evt := range events {
		if evt.Level == level {
			n++
		}
	}
	return n
}
