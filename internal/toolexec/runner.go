// Package toolexec runs external command-line tools on behalf of the media
// packages and keeps the process boundary swappable in tests.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result captures the output of one finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes one external command and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) (Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs commands through os/exec. A positive Timeout bounds each
// invocation; the process is killed when the bound or the context expires.
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes name with args, capturing stdout and stderr separately. A
// non-zero exit is reported as an error carrying the trimmed stderr.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}
	if detail := strings.TrimSpace(result.Stderr); detail != "" {
		return result, fmt.Errorf("%s: %w: %s", name, err, detail)
	}
	return result, fmt.Errorf("%s: %w", name, err)
}

// CommandLine renders a command for operator logs, quoting arguments that
// contain whitespace.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(name))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if strings.ContainsAny(arg, " \t\"'") {
		return fmt.Sprintf("%q", arg)
	}
	return arg
}
