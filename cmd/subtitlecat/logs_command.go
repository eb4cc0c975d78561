package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subtitlecat/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var jobID string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log file written under paths.log_dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logs.FileName)
			out := cmd.OutOrStdout()
			if !cfg.Logging.File {
				fmt.Fprintln(out, "File logging is disabled (logging.file = false); showing what is left on disk.")
			}

			emit := func(line string) {
				if jobID != "" && !strings.Contains(line, jobID) {
					return
				}
				fmt.Fprintln(out, line)
			}
			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				emit(line)
			}
			if !follow {
				return nil
			}
			if err := logs.Follow(cmd.Context(), path, offset, emit); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&jobID, "job", "", "Only show lines of this job id")
	return cmd
}
