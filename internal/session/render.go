package session

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"subtitlecat/internal/keystore"
	"subtitlecat/internal/language"
	"subtitlecat/internal/library"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/workflow"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldColorize reports whether writer is a terminal.
func ShouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return IsTerminal(file)
}

func colorFor(level string) string {
	switch level {
	case "ERROR":
		return ansiRed
	case "WARN":
		return ansiYellow
	case "DEBUG":
		return ansiBlue
	default:
		return ""
	}
}

func paint(color, line string, colorize bool) string {
	if !colorize || color == "" {
		return line
	}
	return color + line + ansiReset
}

func eventLine(evt logging.LogEvent, colorize bool) string {
	return paint(colorFor(evt.Level), evt.Line(), colorize)
}

func newTable(headers ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row(headers))
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw
}

func mark(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func renderEntries(kind library.Kind, entries []library.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No %s files.", kind)
	}
	var tw table.Writer
	if kind == library.KindVideo {
		tw = newTable("#", "", "Video", "SRT")
	} else {
		tw = newTable("#", "", "Subtitle")
	}
	for i, e := range entries {
		row := table.Row{i + 1, mark(e.Selected), e.Path}
		if kind == library.KindVideo {
			srt := ""
			if e.HasSubtitle {
				srt = "yes"
			}
			row = append(row, srt)
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}

func renderKeys(keys []string) string {
	if len(keys) == 0 {
		return "No API keys. Add one with `keys add <key>`."
	}
	tw := newTable("#", "Key")
	for i, key := range keys {
		tw.AppendRow(table.Row{i + 1, keystore.Mask(key)})
	}
	return tw.Render()
}

func renderTargets(current language.Target) string {
	tw := newTable("#", "", "Target", "Code")
	for i, t := range language.Targets() {
		tw.AppendRow(table.Row{i + 1, mark(t.Code == current.Code), fmt.Sprintf("%s (%s)", t.Name, t.Native), t.Code})
	}
	return tw.Render()
}

func renderStatus(s workflow.StatusSummary, colorize bool) string {
	var lines []string
	add := func(label, value string) {
		lines = append(lines, fmt.Sprintf("  %-20s %s", label+":", value))
	}
	root := s.Root
	if root == "" {
		root = "(none; use `dir <path>`)"
	}
	add("Directory", root)
	add("Videos", fmt.Sprintf("%d selected of %d", s.SelectedVideos, s.Videos))
	add("Subtitles", fmt.Sprintf("%d selected of %d", s.SelectedSubtitles, s.Subtitles))
	defaults := "(none; you will be asked per video)"
	if len(s.Defaults) > 0 {
		defaults = strings.Join(s.Defaults, ", ")
	}
	add("Default languages", defaults)
	add("Target", fmt.Sprintf("%s (%s)", s.Target.Name, s.Target.Code))
	add("API keys", fmt.Sprintf("%d", s.Keys))

	state := paint(ansiGreen, "idle", colorize)
	switch {
	case s.Jobs.Extracting && s.Jobs.Translating:
		state = paint(ansiYellow, "one-click running", colorize)
	case s.Jobs.Extracting:
		state = paint(ansiYellow, "extracting", colorize)
	case s.Jobs.Translating:
		state = paint(ansiYellow, "translating", colorize)
	}
	if s.Jobs.CancelRequested {
		state += " (stopping)"
	}
	add("Jobs", state)
	if s.LastError != "" {
		add("Last error", paint(ansiRed, s.LastError, colorize))
	}
	return strings.Join(lines, "\n")
}

const helpText = `Commands:
  dir <path>                     choose the library directory and scan it
  ls [videos|subs]               list files with their selection marks
  select|deselect videos|subs [n...]
                                 change the selection (no numbers = all)
  defaults [show|set <lang...>|clear|setup]
                                 default languages used to auto-pick streams
  target [list|<name>]           show or change the translation target
  keys [list|add <key>|remove <n>]
                                 manage Gemini API keys
  extract                        extract subtitles from the selected videos
  translate                      start or stop translating the selected subtitles
  oneclick                       start or stop extract-then-translate
  stop                           stop every running batch
  wait                           wait for running batches, answering prompts
  status                         show the current settings and jobs
  help                           show this help
  quit                           stop running batches and leave`
