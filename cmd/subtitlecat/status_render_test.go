package main

import (
	"fmt"
	"strings"
	"testing"

	"subtitlecat/internal/deps"
	"subtitlecat/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFprobe", Available: true, Path: "/usr/bin/ffprobe"},
		{Name: "FFmpeg", Available: true, Version: "ffmpeg version 7.1"},
		{Name: "Extra", Optional: true, Detail: "binary \"extra\" not found"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[OK] Ready (command: /usr/bin/ffprobe)") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[OK] Ready (ffmpeg version 7.1)") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN]") {
		t.Fatalf("expected optional dependency as warning, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "Missing dependencies") {
		t.Fatalf("expected summary line, got %q", lines[3])
	}
}

func TestCheckLines(t *testing.T) {
	lines := checkLines([]preflight.Result{
		{Name: "State directory", Passed: true, Detail: "ok"},
		{Name: "API keys", Optional: true, Detail: "no keys"},
		{Name: "Library directory", Detail: "missing"},
	}, false)
	for i, want := range []string{"[OK]", "[WARN]", "[ERROR]"} {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d = %q, want %s", i, lines[i], want)
		}
	}
}
