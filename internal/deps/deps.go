// Package deps reports whether the external media tools are installed.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"subtitlecat/internal/toolexec"
)

// Requirement defines an external binary SubtitleCat relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Path is the resolved executable.
	Path    string
	Version string
	Detail  string
}

// MediaRequirements lists the probing and extraction tools.
func MediaRequirements(ffprobe, ffmpeg string) []Requirement {
	return []Requirement{
		{Name: "FFprobe", Command: ffprobe, Description: "Lists embedded subtitle streams"},
		{Name: "FFmpeg", Command: ffmpeg, Description: "Extracts subtitle streams to SRT"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// DetectVersions runs `<command> -version` for every available status and
// keeps the first output line. Failures leave Version empty and fill Detail.
func DetectVersions(ctx context.Context, runner toolexec.Runner, statuses []Status) []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	for i := range out {
		if !out[i].Available {
			continue
		}
		res, err := runner.Run(ctx, out[i].Command, "-version")
		if err != nil {
			out[i].Detail = "version check failed: " + err.Error()
			continue
		}
		out[i].Version = firstLine(res.Stdout)
	}
	return out
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
