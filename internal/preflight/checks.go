package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"subtitlecat/internal/config"
	"subtitlecat/internal/deps"
	"subtitlecat/internal/keystore"
	"subtitlecat/internal/toolexec"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckKeyFile loads the API key file. A missing file passes with zero keys;
// an empty pool is reported as an optional failure since only translation
// needs keys.
func CheckKeyFile(path string) Result {
	const name = "API keys"
	store, err := keystore.Open(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if store.Len() == 0 {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (no keys; translation unavailable)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d key(s))", path, store.Len())}
}

// CheckSystemDeps evaluates the media tools named by cfg, including their
// reported versions.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, runner toolexec.Runner) []deps.Status {
	statuses := deps.CheckBinaries(deps.MediaRequirements(cfg.FFprobeBinary(), cfg.FFmpegBinary()))
	if runner == nil {
		return statuses
	}
	return deps.DetectVersions(ctx, runner, statuses)
}
