package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"subtitlecat/internal/testsupport"
	"subtitlecat/internal/toolexec"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckKeyFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		content  *string
		passed   bool
		optional bool
	}{
		{name: "missing", content: nil, optional: true},
		{name: "empty array", content: ptr("[]"), optional: true},
		{name: "keys", content: ptr(`["abc", "def"]`), passed: true},
		{name: "malformed", content: ptr("{oops")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if tt.content != nil {
				testsupport.WriteFile(t, path, *tt.content)
			}
			got := CheckKeyFile(path)
			if got.Passed != tt.passed || got.Optional != tt.optional {
				t.Fatalf("CheckKeyFile = %+v", got)
			}
		})
	}
}

func TestRunAllAndFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results := RunAll(context.Background(), cfg, "")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures %+v", failed)
	}

	results = RunAll(context.Background(), cfg, filepath.Join(cfg.Paths.LibraryDir, "missing"))
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "Library directory" {
		t.Fatalf("expected library failure, got %+v", failed)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	runner := toolexec.RunnerFunc(func(_ context.Context, name string, _ ...string) (toolexec.Result, error) {
		return toolexec.Result{Stdout: name + " version test\n"}, nil
	})
	statuses := CheckSystemDeps(context.Background(), cfg, runner)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, s := range statuses {
		if !s.Available || s.Version == "" {
			t.Fatalf("expected available with version, got %+v", s)
		}
	}
}

func ptr(s string) *string { return &s }
