package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"subtitlecat/internal/library"
	"subtitlecat/internal/media/ffprobe"
	"subtitlecat/internal/toolexec"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the videos and subtitle files under a directory",
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
			inv, err := library.Scan(root, libraryOptions(cfg))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Directory: %s\n", inv.Root)
			fmt.Fprintln(out, renderInventory(inv))
			return nil
		},
	}
}

func renderInventory(inv library.Inventory) string {
	if len(inv.Videos) == 0 && len(inv.Subtitles) == 0 {
		return "No video or subtitle files found."
	}
	videoRows := make([][]string, 0, len(inv.Videos))
	for i, v := range inv.Videos {
		videoRows = append(videoRows, []string{strconv.Itoa(i + 1), v.Path, yesNo(v.HasSubtitle)})
	}
	subRows := make([][]string, 0, len(inv.Subtitles))
	for i, s := range inv.Subtitles {
		subRows = append(subRows, []string{strconv.Itoa(i + 1), s.Path})
	}
	return renderTable([]string{"#", "Video", "SRT"}, videoRows, []columnAlignment{alignRight}) + "\n" +
		renderTable([]string{"#", "Subtitle"}, subRows, []columnAlignment{alignRight})
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>",
		Short: "List the subtitle streams of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			video, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			runner := toolexec.ExecRunner{Timeout: cfg.ToolTimeout()}
			streams, err := ffprobe.SubtitleStreams(cmd.Context(), runner, cfg.FFprobeBinary(), video)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if info, err := ffprobe.Inspect(cmd.Context(), runner, cfg.FFprobeBinary(), video); err != nil {
				fmt.Fprintln(out, renderStatusLine("Container", statusWarn, err.Error(), shouldColorize(out)))
			} else {
				fmt.Fprintln(out, renderContainer(filepath.Base(video), info))
			}
			if len(streams) == 0 {
				fmt.Fprintf(out, "%s has no subtitle streams.\n", filepath.Base(video))
				return nil
			}
			fmt.Fprintln(out, renderStreams(streams))
			return nil
		},
	}
}

// renderContainer summarises the container: format, duration, size and
// stream counts by type.
func renderContainer(name string, info ffprobe.Result) string {
	parts := []string{name}
	if info.Format.FormatName != "" {
		parts = append(parts, info.Format.FormatName)
	}
	if secs := info.DurationSeconds(); secs > 0 && !math.IsNaN(secs) {
		parts = append(parts, (time.Duration(secs * float64(time.Second))).Round(time.Second).String())
	}
	if size := info.SizeBytes(); size > 0 {
		parts = append(parts, humanize.Bytes(uint64(size)))
	}
	parts = append(parts, fmt.Sprintf("%d video, %d audio, %d subtitle stream(s)",
		info.StreamCount("video"), info.StreamCount("audio"), info.SubtitleStreamCount()))
	return strings.Join(parts, " | ")
}

func renderStreams(streams []ffprobe.SubtitleStream) string {
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		rows = append(rows, []string{s.Index, s.LanguageOr("und"), s.TitleOr("")})
	}
	return renderTable([]string{"Stream", "Language", "Title"}, rows, []columnAlignment{alignRight})
}
