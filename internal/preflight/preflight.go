package preflight

import (
	"context"

	"subtitlecat/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional failures are reported but do not block batches.
	Optional bool
}

// RunAll executes the filesystem checks for cfg. root overrides the
// configured library directory when non-empty.
func RunAll(ctx context.Context, cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	if root == "" {
		root = cfg.Paths.LibraryDir
	}
	if root != "" {
		results = append(results, CheckDirectoryAccess("Library directory", root))
	}

	results = append(results, CheckKeyFile(cfg.Paths.APIKeysFile))
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
