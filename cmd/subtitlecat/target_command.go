package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subtitlecat/internal/language"
)

func newTargetCommand(ctx *commandContext) *cobra.Command {
	targetCmd := &cobra.Command{
		Use:   "target",
		Short: "Translation targets",
	}
	targetCmd.AddCommand(&cobra.Command{
		Use:         "list",
		Short:       "List the supported translation targets",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(language.Targets()))
			for _, t := range language.Targets() {
				rows = append(rows, []string{t.Name, t.Native, t.Code})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Target", "Native", "Code"}, rows, nil))
			return nil
		},
	})
	targetCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the configured translation target",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target, ok := language.LookupTarget(cfg.Languages.Target)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (not a supported target; %q is used)\n", cfg.Languages.Target, language.DefaultTargetCode)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", target.Name, target.Code)
			return nil
		},
	})
	return targetCmd
}
