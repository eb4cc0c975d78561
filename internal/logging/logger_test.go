package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subtitlecat/internal/config"
	"subtitlecat/internal/logging"
)

func TestNewFromConfigWritesFileAndStream(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.File = true

	hub := logging.NewStreamHub(10)
	logger, err := logging.NewFromConfig(&cfg, hub)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("scan complete", logging.Int("videos", 2))
	logger.Debug("hidden at info level")

	events, _ := hub.Tail(10)
	if len(events) != 1 || events[0].Message != "scan complete" {
		t.Fatalf("unexpected hub events: %+v", events)
	}

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "subtitlecat.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "scan complete") || !strings.Contains(string(content), "videos=2") {
		t.Fatalf("unexpected log file content: %q", content)
	}
}

func TestNewFromConfigJSONFileFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.File = true
	cfg.Logging.Format = "json"

	hub := logging.NewStreamHub(10)
	logger, err := logging.NewFromConfig(&cfg, hub)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Warn("extraction failed", logging.String(logging.FieldVideo, "movie.mkv"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "subtitlecat.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"extraction failed"`) {
		t.Fatalf("expected JSON record, got %q", content)
	}
	if events, _ := hub.Tail(10); len(events) != 1 || events[0].Fields[logging.FieldVideo] != "movie.mkv" {
		t.Fatalf("unexpected hub events: %+v", events)
	}
}

func TestStreamOnlyLoggerStillHonoursLevel(t *testing.T) {
	hub := logging.NewStreamHub(10)
	logger, err := logging.New(logging.Options{Level: "warn", Stream: hub})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")

	events, _ := hub.Tail(10)
	if len(events) != 1 || events[0].Level != "WARN" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestJSONFormatUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", logging.String("video", "a.mkv"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, fragment := range []string{`"ts":`, `"level":"info"`, `"msg":"hello"`, `"video":"a.mkv"`} {
		if !strings.Contains(string(content), fragment) {
			t.Fatalf("expected %s in %s", fragment, content)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	hub := logging.NewStreamHub(10)
	logger, err := logging.New(logging.Options{Stream: hub})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.WarnWithContext(logger, "no streams", "probe_empty")

	events, _ := hub.Tail(1)
	if len(events) != 1 {
		t.Fatalf("expected one event")
	}
	fields := events[0].Fields
	if fields[logging.FieldEventType] != "probe_empty" || fields[logging.FieldErrorHint] == "" || fields[logging.FieldImpact] == "" {
		t.Fatalf("expected injected context fields, got %v", fields)
	}
}
