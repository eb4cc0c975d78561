package extraction

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"subtitlecat/internal/media/ffprobe"
	"subtitlecat/internal/prompt"
	"subtitlecat/internal/selection"
	"subtitlecat/internal/testsupport"
	"subtitlecat/internal/toolexec"
)

func str(s string) *string { return &s }

type staticProber map[string][]ffprobe.SubtitleStream

func (p staticProber) Probe(_ context.Context, video string) []ffprobe.SubtitleStream {
	return p[video]
}

// fakeFFmpeg records invocations and writes the output file unless the
// stream index is listed in fail.
type fakeFFmpeg struct {
	mu    sync.Mutex
	calls [][]string
	fail  map[string]bool
	hook  func()
}

func (f *fakeFFmpeg) Run(_ context.Context, name string, args ...string) (toolexec.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()
	if f.hook != nil {
		f.hook()
	}
	mapArg := args[4]
	if f.fail[strings.TrimPrefix(mapArg, "0:")] {
		return toolexec.Result{ExitCode: 1}, errors.New("exit status 1: Invalid argument")
	}
	output := args[len(args)-1]
	return toolexec.Result{}, writeFile(output)
}

type answerAsker struct {
	answers [][]string
	asked   []*prompt.Request
}

func (a *answerAsker) Ask(_ context.Context, req *prompt.Request) ([]string, error) {
	a.asked = append(a.asked, req)
	answer := a.answers[0]
	a.answers = a.answers[1:]
	return answer, nil
}

func defaults(tags ...string) func() []string {
	return func() []string { return tags }
}

func TestRunExtractsMatchingStreamWithoutPrompt(t *testing.T) {
	root := t.TempDir()
	video := filepath.Join(root, "movie.mkv")
	logger, hub := testsupport.NewLogger(t)
	asker := &answerAsker{}
	ff := &fakeFFmpeg{}
	driver := NewDriver(
		staticProber{video: {{Index: "2", Language: str("eng")}}},
		selection.NewResolver(asker, logger),
		ff, "", logger,
	)

	var completed *Report
	report := driver.Run(context.Background(), Request{
		Videos:     []string{video},
		Defaults:   defaults("eng"),
		OnComplete: func(r Report) { completed = &r },
	}, func() bool { return false })

	want := filepath.Join(root, "movie.eng.srt")
	if !reflect.DeepEqual(report.Produced, []string{want}) {
		t.Fatalf("produced = %v, want %v", report.Produced, []string{want})
	}
	if !testsupport.Exists(want) {
		t.Fatalf("expected %s on disk", want)
	}
	if len(asker.asked) != 0 {
		t.Fatal("matching defaults must not prompt")
	}
	if completed == nil || completed.Cancelled {
		t.Fatalf("OnComplete not called with a finished report: %+v", completed)
	}
	if !testsupport.HasMessage(hub, "all extraction tasks done") {
		t.Fatalf("missing completion marker: %v", testsupport.Messages(hub))
	}
	wantCmd := "[1] ffmpeg -y -i " + video + " -map 0:2 -c:s srt " + want
	if !testsupport.HasMessage(hub, wantCmd) {
		t.Fatalf("missing command log %q in %v", wantCmd, testsupport.Messages(hub))
	}
}

func TestRunEscalatesWhenDefaultsDoNotMatch(t *testing.T) {
	root := t.TempDir()
	video := filepath.Join(root, "movie.mkv")
	logger, _ := testsupport.NewLogger(t)
	asker := &answerAsker{answers: [][]string{{"2"}}}
	driver := NewDriver(
		staticProber{video: {{Index: "2", Language: str("eng")}}},
		selection.NewResolver(asker, logger),
		&fakeFFmpeg{}, "ffmpeg", logger,
	)

	report := driver.Run(context.Background(), Request{Videos: []string{video}, Defaults: defaults("fre")}, nil)
	if len(asker.asked) != 1 || len(asker.asked[0].Options) != 1 || asker.asked[0].Options[0].ID != "2" {
		t.Fatalf("expected one prompt presenting the eng stream, got %+v", asker.asked)
	}
	if want := []string{filepath.Join(root, "movie.eng.srt")}; !reflect.DeepEqual(report.Produced, want) {
		t.Fatalf("produced = %v, want %v", report.Produced, want)
	}
}

func TestRunIsolatesStreamFailures(t *testing.T) {
	root := t.TempDir()
	video := filepath.Join(root, "show.mkv")
	logger, hub := testsupport.NewLogger(t)
	ff := &fakeFFmpeg{fail: map[string]bool{"3": true}}
	driver := NewDriver(
		staticProber{video: {
			{Index: "2", Language: str("eng")},
			{Index: "3", Language: str("eng"), Title: str("bitmap")},
			{Index: "4", Language: str("en")},
		}},
		selection.NewResolver(nil, logger),
		ff, "ffmpeg", logger,
	)

	report := driver.Run(context.Background(), Request{Videos: []string{video}, Defaults: defaults("eng")}, nil)
	if len(report.Produced) != 2 {
		t.Fatalf("expected 2 produced files, got %v", report.Produced)
	}
	if len(report.Failures) != 1 || report.Failures[0].Index != "3" || report.Failures[0].Language != "eng" {
		t.Fatalf("unexpected failures %+v", report.Failures)
	}
	if len(ff.calls) != 3 {
		t.Fatalf("batch should continue after failure, got %d calls", len(ff.calls))
	}
	if testsupport.CountLevel(hub, "ERROR") != 1 {
		t.Fatalf("expected exactly one error log, got %v", testsupport.Messages(hub))
	}
}

func TestRunSkipsVideosWithoutStreamsOrChoice(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "a.mkv")
	declined := filepath.Join(root, "b.mkv")
	logger, hub := testsupport.NewLogger(t)
	asker := &answerAsker{answers: [][]string{{}}}
	driver := NewDriver(
		staticProber{declined: {{Index: "1"}}},
		selection.NewResolver(asker, logger),
		&fakeFFmpeg{}, "ffmpeg", logger,
	)

	report := driver.Run(context.Background(), Request{Videos: []string{empty, declined}}, nil)
	if !reflect.DeepEqual(report.Skipped, []string{empty, declined}) {
		t.Fatalf("skipped = %v", report.Skipped)
	}
	if len(report.Produced) != 0 || report.Cancelled {
		t.Fatalf("unexpected report %+v", report)
	}
	if !testsupport.HasMessage(hub, "no subtitle streams found") {
		t.Fatalf("missing no-streams log: %v", testsupport.Messages(hub))
	}
}

func TestRunStopsBeforeNextItem(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.mkv")
	second := filepath.Join(root, "b.mkv")
	logger, hub := testsupport.NewLogger(t)

	var stop bool
	ff := &fakeFFmpeg{}
	ff.hook = func() { stop = true }
	driver := NewDriver(
		staticProber{
			first:  {{Index: "2", Language: str("eng")}, {Index: "3", Language: str("eng")}},
			second: {{Index: "2", Language: str("eng")}},
		},
		selection.NewResolver(nil, logger),
		ff, "ffmpeg", logger,
	)

	var completed bool
	report := driver.Run(context.Background(), Request{
		Videos:     []string{first, second},
		Defaults:   defaults("eng"),
		OnComplete: func(Report) { completed = true },
	}, func() bool { return stop })

	if !report.Cancelled {
		t.Fatal("expected cancelled report")
	}
	if len(ff.calls) != 1 {
		t.Fatalf("expected the batch to halt after the running stream, got %d calls", len(ff.calls))
	}
	if !completed {
		t.Fatal("OnComplete should run on cancellation too")
	}
	if !testsupport.HasMessage(hub, "extraction stopped") || testsupport.HasMessage(hub, "all extraction tasks done") {
		t.Fatalf("unexpected log messages: %v", testsupport.Messages(hub))
	}
}

func TestRunReadsDefaultsPerVideo(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.mkv")
	second := filepath.Join(root, "b.mkv")
	logger, _ := testsupport.NewLogger(t)
	set := selection.NewLanguageSet("eng")
	ff := &fakeFFmpeg{}
	ff.hook = func() { set.Set([]string{"jpn"}) }
	driver := NewDriver(
		staticProber{
			first:  {{Index: "2", Language: str("eng")}, {Index: "3", Language: str("jpn")}},
			second: {{Index: "2", Language: str("eng")}, {Index: "3", Language: str("jpn")}},
		},
		selection.NewResolver(nil, logger),
		ff, "ffmpeg", logger,
	)
	report := driver.Run(context.Background(), Request{Videos: []string{first, second}, Defaults: set.Tags}, nil)
	want := []string{filepath.Join(root, "a.eng.srt"), filepath.Join(root, "b.jpn.srt")}
	if !reflect.DeepEqual(report.Produced, want) {
		t.Fatalf("produced = %v, want %v", report.Produced, want)
	}
}

func TestProberSwallowsFailures(t *testing.T) {
	logger, hub := testsupport.NewLogger(t)
	runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
		return toolexec.Result{}, errors.New("exit status 1: moov atom not found")
	})
	if streams := NewProber(runner, "ffprobe", logger).Probe(context.Background(), "/lib/broken.mp4"); streams != nil {
		t.Fatalf("expected nil streams, got %v", streams)
	}
	if testsupport.CountLevel(hub, "WARN") != 1 {
		t.Fatalf("expected one warning, got %v", testsupport.Messages(hub))
	}
}
