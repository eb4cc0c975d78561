package ffmpeg

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"subtitlecat/internal/toolexec"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		video string
		lang  string
		want  string
	}{
		{"/lib/movie.mkv", "eng", "/lib/movie.eng.srt"},
		{"/lib/movie.mkv", "", "/lib/movie.unknown.srt"},
		{"/lib/show.s01e01.MP4", "jpn", "/lib/show.s01e01.jpn.srt"},
		{"/lib/noext", "fre", "/lib/noext.fre.srt"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.video, tt.lang); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.video, tt.lang, got, tt.want)
		}
	}
}

func TestExtractSubtitleArguments(t *testing.T) {
	var gotName string
	var gotArgs []string
	runner := toolexec.RunnerFunc(func(ctx context.Context, name string, args ...string) (toolexec.Result, error) {
		gotName = name
		gotArgs = args
		return toolexec.Result{}, nil
	})
	if err := ExtractSubtitle(context.Background(), runner, "", "/lib/movie.mkv", "3", "/lib/movie.eng.srt"); err != nil {
		t.Fatalf("ExtractSubtitle: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("expected default ffmpeg binary, got %q", gotName)
	}
	want := []string{"-y", "-i", "/lib/movie.mkv", "-map", "0:3", "-c:s", "srt", "/lib/movie.eng.srt"}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
}

func TestExtractSubtitleWrapsFailure(t *testing.T) {
	boom := errors.New("exit status 1: Subtitle encoding currently only possible from text to text")
	runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
		return toolexec.Result{ExitCode: 1}, boom
	})
	err := ExtractSubtitle(context.Background(), runner, "ffmpeg", "movie.mkv", "4", "movie.eng.srt")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "stream 4") {
		t.Fatalf("expected stream index in error, got %v", err)
	}
}

func TestExtractSubtitleRejectsBlankIndex(t *testing.T) {
	runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
		t.Fatal("runner should not be called")
		return toolexec.Result{}, nil
	})
	if err := ExtractSubtitle(context.Background(), runner, "ffmpeg", "movie.mkv", " ", "out.srt"); err == nil {
		t.Fatal("expected error for blank index")
	}
}
