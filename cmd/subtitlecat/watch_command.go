package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"subtitlecat/internal/library"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rescan and report the library whenever files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := ctx.resolveRoot(args)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg, nil)
			if err != nil {
				return err
			}
			inv, err := library.Scan(root, libraryOptions(cfg))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, inventoryLine(inv))

			w, err := watcher.New(inv.Root, watcher.Options{Debounce: debounce, Extensions: watchExtensions(cfg)},
				func(_ context.Context, paths []string) {
					inv, err := library.Scan(root, libraryOptions(cfg))
					if err != nil {
						logging.WarnWithContext(logger, "rescan failed", "rescan_failed",
							logging.Error(err),
							logging.String(logging.FieldImpact, "listing not updated"),
						)
						return
					}
					fmt.Fprintf(out, "%d path(s) changed; %s\n", len(paths), inventoryLine(inv))
				}, logger)
			if err != nil {
				return err
			}
			if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before a change is reported")
	return cmd
}

func inventoryLine(inv library.Inventory) string {
	withSRT := 0
	for _, v := range inv.Videos {
		if v.HasSubtitle {
			withSRT++
		}
	}
	return fmt.Sprintf("%s: %d video(s) (%d with SRT), %d subtitle file(s)", inv.Root, len(inv.Videos), withSRT, len(inv.Subtitles))
}
