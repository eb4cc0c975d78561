package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subtitlecat/internal/extraction"
	"subtitlecat/internal/library"
	"subtitlecat/internal/services"
	"subtitlecat/internal/translation"
	"subtitlecat/internal/workflow"
)

// batchFlags narrows a one-shot batch before it starts.
type batchFlags struct {
	langs     []string
	target    string
	videos    []string
	subtitles []string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.langs, "lang", nil, "Default subtitle languages to extract without asking (e.g. eng,jpn)")
	cmd.Flags().StringVar(&f.target, "target", "", "Translation target: Chinese, English, Korean or Japanese")
	cmd.Flags().StringSliceVar(&f.videos, "video", nil, "Only process these videos (relative path or file name)")
	cmd.Flags().StringSliceVar(&f.subtitles, "subtitle", nil, "Only translate these subtitle files (relative path or file name)")
}

func (f *batchFlags) apply(settings *workflow.Settings) error {
	if len(f.langs) > 0 {
		settings.SetDefaults(f.langs)
	}
	if strings.TrimSpace(f.target) != "" {
		if _, err := settings.SetTarget(f.target); err != nil {
			return err
		}
	}
	catalog := settings.Catalog()
	if err := narrowSelection(catalog, library.KindVideo, f.videos); err != nil {
		return err
	}
	return narrowSelection(catalog, library.KindSubtitle, f.subtitles)
}

// narrowSelection keeps only the entries of kind named in names. An empty
// list leaves the selection untouched.
func narrowSelection(catalog *library.Catalog, kind library.Kind, names []string) error {
	if len(names) == 0 {
		return nil
	}
	entries := catalog.Entries(kind)
	var positions []int
	for _, name := range names {
		name = filepath.ToSlash(strings.TrimSpace(name))
		matched := false
		for i, e := range entries {
			if e.Path == name || filepath.Base(e.Path) == name {
				positions = append(positions, i+1)
				matched = true
			}
		}
		if !matched {
			return services.Wrap(services.ErrValidation, "cli", "select", fmt.Sprintf("no %s matches %q", kind, name), nil)
		}
	}
	if err := catalog.SetSelected(kind, false); err != nil {
		return err
	}
	return catalog.SetSelected(kind, true, positions...)
}

type batchRunner func(ctx context.Context, cmd *cobra.Command, a *app) error

func newBatchCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newBatchCommand(ctx, "extract [dir]", "Extract subtitle streams from the videos under a directory", runExtract),
		newBatchCommand(ctx, "translate [dir]", "Translate the subtitle files under a directory", runTranslate),
		newBatchCommand(ctx, "run [dir]", "Extract subtitles, then translate them (one-click)", runOneClick),
	}
}

func newBatchCommand(ctx *commandContext, use, short string, run batchRunner) *cobra.Command {
	var flags batchFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
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
			a, err := newApp(cfg, root)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := flags.apply(a.settings); err != nil {
				return err
			}
			return run(cmd.Context(), cmd, a)
		},
	}
	flags.register(cmd)
	return cmd
}

func runExtract(ctx context.Context, cmd *cobra.Command, a *app) error {
	var done <-chan extraction.Report
	s := a.session(cmd.InOrStdin(), cmd.OutOrStdout(), false)
	err := s.Exec(ctx, func(ctx context.Context) error {
		var err error
		done, err = a.manager.StartExtraction(ctx)
		return err
	})
	if err != nil {
		return err
	}
	report := <-done
	fmt.Fprintf(cmd.OutOrStdout(), "%s: extracted %d file(s), skipped %d video(s), %d failure(s)\n",
		report.Status(), len(report.Produced), len(report.Skipped), len(report.Failures))
	if len(report.Failures) > 0 {
		return services.Wrap(services.ErrExternalTool, "cli", "extract", fmt.Sprintf("%d stream(s) failed to extract", len(report.Failures)), nil)
	}
	return nil
}

func runTranslate(ctx context.Context, cmd *cobra.Command, a *app) error {
	var done <-chan translation.Result
	s := a.session(cmd.InOrStdin(), cmd.OutOrStdout(), false)
	err := s.Exec(ctx, func(ctx context.Context) error {
		var err error
		done, err = a.manager.ToggleTranslation(ctx)
		return err
	})
	if err != nil {
		return err
	}
	result := <-done
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d file(s) in batch\n", result.Status, result.Files)
	return result.Err
}

func runOneClick(ctx context.Context, cmd *cobra.Command, a *app) error {
	var done <-chan workflow.PipelineResult
	s := a.session(cmd.InOrStdin(), cmd.OutOrStdout(), false)
	err := s.Exec(ctx, func(ctx context.Context) error {
		var err error
		done, err = a.manager.ToggleOneClick(ctx)
		return err
	})
	if err != nil {
		return err
	}
	result := <-done
	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return result.Err
}
