package toolexec

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	script := writeScript(t, `echo "out:$1"; echo "warn" 1>&2`)
	result, err := ExecRunner{}.Run(context.Background(), script, "arg")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "out:arg" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
	if strings.TrimSpace(result.Stderr) != "warn" {
		t.Fatalf("unexpected stderr %q", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", result.ExitCode)
	}
}

func TestExecRunnerReportsFailureWithStderr(t *testing.T) {
	script := writeScript(t, `echo "Invalid data found" 1>&2; exit 3`)
	result, err := ExecRunner{}.Run(context.Background(), script)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5`)
	start := time.Now()
	_, err := ExecRunner{Timeout: 50 * time.Millisecond}.Run(context.Background(), script)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	result, err := ExecRunner{}.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if result.ExitCode != -1 {
		t.Fatalf("expected -1 exit code, got %d", result.ExitCode)
	}
}

func TestCommandLineQuotesWhitespace(t *testing.T) {
	got := CommandLine("ffmpeg", "-y", "-i", "My Movie.mkv", "-map", "0:2")
	want := `ffmpeg -y -i "My Movie.mkv" -map 0:2`
	if got != want {
		t.Fatalf("CommandLine() = %q, want %q", got, want)
	}
}
