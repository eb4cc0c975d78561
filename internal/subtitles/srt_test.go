package subtitles

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

const sample = "\ufeff1\r\n00:00:01,000 --> 00:00:02,500\r\nHello there.\r\n\r\n7\r\n00:00:03.250 --> 00:00:05,000 X1:40 X2:600\r\nTwo\r\nlines\r\n\r\nbroken block\r\n\r\n00:01:00,000 --> 01:02:03,004\r\nNo number\r\n"

func TestParse(t *testing.T) {
	cues, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "Hello there." {
		t.Fatalf("unexpected first cue %+v", cues[0])
	}
	if cues[1].Index != 2 || cues[1].Text != "Two\nlines" {
		t.Fatalf("unexpected second cue %+v", cues[1])
	}
	if cues[1].Start != 3250*time.Millisecond || cues[1].End != 5*time.Second {
		t.Fatalf("unexpected timing %v-%v", cues[1].Start, cues[1].End)
	}
	wantEnd := time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond
	if cues[2].Text != "No number" || cues[2].End != wantEnd {
		t.Fatalf("unexpected third cue %+v", cues[2])
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse("  \n\n"); !errors.Is(err, ErrNoCues) {
		t.Fatalf("expected ErrNoCues, got %v", err)
	}
}

func TestFormatRoundTripsThroughFile(t *testing.T) {
	cues := []Cue{
		{Index: 9, Start: 0, End: 1500 * time.Millisecond, Text: "你好"},
		{Index: 4, Start: 61 * time.Second, End: 62 * time.Second, Text: "a\nb"},
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\n你好\n\n2\n00:01:01,000 --> 00:01:02,000\na\nb\n"
	if got := Format(cues); got != want {
		t.Fatalf("Format =\n%q\nwant\n%q", got, want)
	}

	path := filepath.Join(t.TempDir(), "out.srt")
	if err := WriteFile(path, cues); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(back) != 2 || back[0].Text != "你好" || back[1].Start != 61*time.Second {
		t.Fatalf("unexpected cues %+v", back)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "00:00:01", "aa:00:01,000", "00:01,000", "-1:00:00,000"} {
		if _, err := ParseTimestamp(value); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", value)
		}
	}
}

func TestClean(t *testing.T) {
	cues := []Cue{
		{Text: "Subtitles by someone"},
		{Text: "Keep me"},
		{Text: "  "},
		{Text: "Visit\nwww.example.com"},
		{Text: "And me"},
	}
	for i := range cues {
		cues[i].Index = i + 1
	}
	kept, ads := Clean(cues, true)
	if len(ads) != 2 || len(kept) != 2 {
		t.Fatalf("ads=%+v kept=%+v", ads, kept)
	}
	if ads[0].Index != 1 || ads[1].Index != 4 {
		t.Fatalf("ads should keep their original index: %+v", ads)
	}
	if kept[1].Index != 2 || kept[1].Text != "And me" {
		t.Fatalf("unexpected kept cue %+v", kept[1])
	}

	kept, ads = Clean(cues, false)
	if len(ads) != 0 || len(kept) != 4 {
		t.Fatalf("without ad filtering only blank cues go: ads=%+v kept=%+v", ads, kept)
	}
}
