package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subtitlecat/internal/history"
	"subtitlecat/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var pruneDays int
	cmd := &cobra.Command{
		Use:   "history [job-id]",
		Short: "Show recorded batches, or the items of one batch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return services.Wrap(services.ErrConfiguration, "cli", "history", "run history is disabled (history.enabled = false)", nil)
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if pruneDays > 0 {
				removed, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -pruneDays))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d run(s) older than %d day(s)\n", removed, pruneDays)
				return nil
			}

			if len(args) == 1 {
				run, items, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderRunDetail(run, items))
				return nil
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "Delete runs older than this many days instead of listing")
	return cmd
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			string(r.Kind),
			r.Status,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			formatDuration(r.Duration()),
			strconv.Itoa(r.Produced),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Skipped),
		})
	}
	return renderTable(
		[]string{"Job", "Kind", "Status", "Started", "Took", "Produced", "Failed", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderRunDetail(run history.Run, items []history.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job:     %s\n", run.ID)
	fmt.Fprintf(&b, "Kind:    %s\n", run.Kind)
	fmt.Fprintf(&b, "Status:  %s\n", run.Status)
	fmt.Fprintf(&b, "Root:    %s\n", run.Root)
	if run.Target != "" {
		fmt.Fprintf(&b, "Target:  %s\n", run.Target)
	}
	fmt.Fprintf(&b, "Started: %s\n", run.StartedAt.Local().Format(time.RFC3339))
	if run.ErrorMessage != "" {
		fmt.Fprintf(&b, "Error:   %s\n", run.ErrorMessage)
	}
	if len(items) == 0 {
		b.WriteString("No items recorded.")
		return b.String()
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Outcome, it.Path, it.Detail})
	}
	b.WriteString(renderTable([]string{"Outcome", "Path", "Detail"}, rows, nil))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
