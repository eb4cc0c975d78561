package subtitles

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed subtitle block.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	// Text holds the cue lines joined by "\n".
	Text string
}

// ErrNoCues is returned when an input holds no parseable cue.
var ErrNoCues = errors.New("no subtitle cues")

// Parse decodes SRT content. Blocks without a valid timing line are skipped.
func Parse(content string) ([]Cue, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var cues []Cue
	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		timing := -1
		// The timing line is the first or, after a sequence number, the second.
		for i := 0; i < len(lines) && i < 2; i++ {
			if strings.Contains(lines[i], "-->") {
				timing = i
				break
			}
		}
		if timing < 0 {
			continue
		}
		start, end, err := parseTiming(lines[timing])
		if err != nil {
			continue
		}
		text := make([]string, 0, len(lines)-timing-1)
		for _, line := range lines[timing+1:] {
			text = append(text, strings.TrimRight(line, " \t"))
		}
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: start,
			End:   end,
			Text:  strings.Join(text, "\n"),
		})
	}
	if len(cues) == 0 {
		return nil, ErrNoCues
	}
	return cues, nil
}

// ParseFile reads and parses the SRT file at path.
func ParseFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	cues, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cues, nil
}

// Format renders cues as canonical SRT, numbering them from 1.
func Format(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), strings.TrimRight(cue.Text, "\n"))
	}
	return b.String()
}

// WriteFile writes cues to path.
func WriteFile(path string, cues []Cue) error {
	if err := os.WriteFile(path, []byte(Format(cues)), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// FormatTimestamp renders d as HH:MM:SS,mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp parses HH:MM:SS,mmm (a dot separator is accepted).
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	clock, fraction, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(fraction)
	if errH != nil || errM != nil || errS != nil || errMS != nil || hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

func parseTiming(line string) (time.Duration, time.Duration, error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("missing timing arrow")
	}
	// Position hints such as "X1:40 X2:600" may follow the end timestamp.
	if fields := strings.Fields(right); len(fields) > 0 {
		right = fields[0]
	}
	start, err := ParseTimestamp(left)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(right)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func splitBlocks(content string) []string {
	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}
