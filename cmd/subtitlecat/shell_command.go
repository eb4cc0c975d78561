package main

import (
	"github.com/spf13/cobra"

	"subtitlecat/internal/session"
)

func newShellCommand(ctx *commandContext) *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "shell [dir]",
		Short: "Open the interactive session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lock, err := session.AcquireLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer lock.Release()

			root := ""
			if len(args) == 1 || cfg.Paths.LibraryDir != "" {
				if root, err = ctx.resolveRoot(args); err != nil {
					return err
				}
			}
			a, err := newApp(cfg, root)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.session(cmd.InOrStdin(), cmd.OutOrStdout(), !noWatch).Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not refresh file lists when the directory changes")
	return cmd
}
