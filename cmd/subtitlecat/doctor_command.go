package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subtitlecat/internal/deps"
	"subtitlecat/internal/preflight"
	"subtitlecat/internal/services"
	"subtitlecat/internal/toolexec"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Check media tools, directories and API keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := ""
			if len(args) == 1 {
				if root, err = ctx.resolveRoot(args); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg, toolexec.ExecRunner{Timeout: cfg.ToolTimeout()})
			checks := preflight.RunAll(cmd.Context(), cfg, root)

			var lines []string
			lines = append(lines, renderSectionHeader("Media tools", colorize)...)
			lines = append(lines, dependencyLines(statuses, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Environment", colorize)...)
			lines = append(lines, checkLines(checks, colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			missing := deps.Missing(statuses)
			failed := preflight.Failed(checks)
			if len(missing) > 0 || len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "cli", "doctor",
					fmt.Sprintf("%d required check(s) failed", len(missing)+len(failed)), nil)
			}
			return nil
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			switch {
			case dep.Version != "":
				message = fmt.Sprintf("Ready (%s)", dep.Version)
			case dep.Path != "":
				message = fmt.Sprintf("Ready (command: %s)", dep.Path)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(missing, ", ")+" (install ffmpeg, which ships ffprobe)", colorize))
	}
	return lines
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		switch {
		case r.Passed:
		case r.Optional:
			kind = statusWarn
		default:
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
