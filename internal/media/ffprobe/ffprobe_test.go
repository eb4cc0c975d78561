package ffprobe

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"subtitlecat/internal/toolexec"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "subtitle", Tags: map[string]string{"language": "eng", "title": "SDH"}},
			{CodecType: "subtitle"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	if result.StreamCount("video") != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.StreamCount("video"))
	}
	if result.SubtitleStreamCount() != 2 {
		t.Fatalf("expected 2 subtitle streams, got %d", result.SubtitleStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestInspectDecodesJSON(t *testing.T) {
	payload := `{"streams":[{"index":0,"codec_type":"video"},{"index":2,"codec_type":"subtitle","codec_name":"subrip","tags":{"language":"eng"}}],"format":{"filename":"movie.mkv","nb_streams":2,"duration":"60.0"}}`
	runner := toolexec.RunnerFunc(func(ctx context.Context, name string, args ...string) (toolexec.Result, error) {
		if name != "ffprobe" {
			t.Fatalf("unexpected binary %q", name)
		}
		if args[len(args)-1] != "movie.mkv" {
			t.Fatalf("expected path as last argument, got %v", args)
		}
		return toolexec.Result{Stdout: payload}, nil
	})
	result, err := Inspect(context.Background(), runner, "", "movie.mkv")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.SubtitleStreamCount() != 1 || result.Streams[1].CodecName != "subrip" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Format.FormatName != "" || result.DurationSeconds() != 60 {
		t.Fatalf("unexpected format %+v", result.Format)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
		t.Fatal("runner should not be called")
		return toolexec.Result{}, nil
	})
	if _, err := Inspect(context.Background(), runner, "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestParseSubtitleStreams(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []SubtitleStream
	}{
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
		{
			name:   "single stream with both tags",
			output: "index=2\nTAG:language=eng\nTAG:title=English SDH\n",
			want:   []SubtitleStream{{Index: "2", Language: stringPtr("eng"), Title: stringPtr("English SDH")}},
		},
		{
			name:   "tags attach only to their own stream",
			output: "index=2\nTAG:language=eng\nindex=3\nTAG:title=Commentary\nindex=4\n",
			want: []SubtitleStream{
				{Index: "2", Language: stringPtr("eng")},
				{Index: "3", Title: stringPtr("Commentary")},
				{Index: "4"},
			},
		},
		{
			name:   "lines before first index are ignored",
			output: "TAG:language=jpn\nnoise\nindex=5\n",
			want:   []SubtitleStream{{Index: "5"}},
		},
		{
			name:   "value keeps text after first equals",
			output: "index=1\r\nTAG:title=a=b\r\nTAG:rotate=90\r\n",
			want:   []SubtitleStream{{Index: "1", Title: stringPtr("a=b")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubtitleStreams(tt.output)
			if err != nil {
				t.Fatalf("ParseSubtitleStreams: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSubtitleStreamsInvokesFFprobe(t *testing.T) {
	var gotArgs []string
	runner := toolexec.RunnerFunc(func(ctx context.Context, name string, args ...string) (toolexec.Result, error) {
		if name != "/opt/ffprobe" {
			t.Fatalf("unexpected binary %q", name)
		}
		gotArgs = args
		return toolexec.Result{Stdout: "index=2\nTAG:language=eng\n"}, nil
	})
	streams, err := SubtitleStreams(context.Background(), runner, "/opt/ffprobe", "/lib/movie.mkv")
	if err != nil {
		t.Fatalf("SubtitleStreams: %v", err)
	}
	wantArgs := []string{"-v", "error", "-select_streams", "s", "-show_entries", "stream=index:stream_tags=language,title", "-of", "default=noprint_wrappers=1", "/lib/movie.mkv"}
	if !reflect.DeepEqual(gotArgs, wantArgs) {
		t.Fatalf("args = %v, want %v", gotArgs, wantArgs)
	}
	if len(streams) != 1 || streams[0].LanguageOr("") != "eng" || streams[0].TitleOr("none") != "none" {
		t.Fatalf("unexpected streams %+v", streams)
	}
}

func TestSubtitleStreamsPropagatesToolFailure(t *testing.T) {
	boom := errors.New("exit status 1")
	runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
		return toolexec.Result{}, boom
	})
	if _, err := SubtitleStreams(context.Background(), runner, "ffprobe", "movie.mkv"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped tool error, got %v", err)
	}
}
