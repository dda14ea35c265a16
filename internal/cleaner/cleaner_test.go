package cleaner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/textpub/internal/llm"
)

type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	systems []string
	respond func(call int, prompt string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	call := len(f.prompts)
	f.prompts = append(f.prompts, req.Prompt)
	f.systems = append(f.systems, req.System)
	f.mu.Unlock()
	if f.respond == nil {
		return "clean:" + req.Prompt, nil
	}
	return f.respond(call, req.Prompt)
}

func (f *fakeCompleter) Model() string            { return "fake-model" }
func (f *fakeCompleter) Stats() *llm.LatencyStats { return llm.NewLatencyStats(time.Minute) }
func (f *fakeCompleter) Close()                   {}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noBackoff(int) time.Duration { return 0 }

func newTestAI(c llm.Completer, segChars int) *AI {
	return NewAI(c, quietLogger(), AIOptions{SegmentChars: segChars, Backoff: noBackoff})
}

func recordProgress() (ProgressFunc, func() []float64) {
	var mu sync.Mutex
	var got []float64
	return func(f float64) {
			mu.Lock()
			got = append(got, f)
			mu.Unlock()
		}, func() []float64 {
			mu.Lock()
			defer mu.Unlock()
			return append([]float64(nil), got...)
		}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindHeuristic, false},
		{"heuristic", KindHeuristic, false},
		{" AI ", KindAI, false},
		{"llm", KindAI, false},
		{"magic", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMonotonicClampsAndNeverDecreases(t *testing.T) {
	fn, got := recordProgress()
	p := Monotonic(fn)
	for _, v := range []float64{0.2, 0.1, 0.5, -1, 2} {
		p(v)
	}
	want := []float64{0.2, 0.2, 0.5, 0.5, 1}
	values := got()
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(values))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], values[i])
		}
	}

	Monotonic(nil)(0.4)
}

func TestHeuristicClean(t *testing.T) {
	var lines []string
	for page := 1; page <= 4; page++ {
		lines = append(lines,
			"The Long Road",
			fmt.Sprintf("Body text on page %d that wraps", page),
			"onto a second line.",
			"",
			fmt.Sprintf("- %d -", page),
		)
	}
	raw := strings.Join(lines, "\n")

	h := &Heuristic{Log: quietLogger()}
	fn, got := recordProgress()
	out, err := h.Clean(context.Background(), raw, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "The Long Road") {
		t.Fatalf("expected running header removed, got %q", out)
	}
	if strings.Contains(out, "- 1 -") {
		t.Fatalf("expected page numbers removed, got %q", out)
	}
	if !strings.Contains(out, "Body text on page 1 that wraps onto a second line.") {
		t.Fatalf("expected wrapped lines merged, got %q", out)
	}
	if len(got()) == 0 {
		t.Fatalf("expected progress callbacks")
	}
	if h.Name() != "heuristic" {
		t.Fatalf("expected name heuristic, got %q", h.Name())
	}
}

func TestHeuristicLogsAppliedMode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		mode string
		want string
	}{
		{
			name: "blank line",
			raw:  "It was late. The rain\nkept falling.\n\nMorning came.",
			mode: "mode=blank_line",
			want: "It was late. The rain kept falling.\n\nMorning came.",
		},
		{
			name: "terminator",
			raw:  "It was late when the rain began.\nThe streets emptied and the lamps\nflickered on one by one.",
			mode: "mode=terminator",
			want: "It was late when the rain began.\n\nThe streets emptied and the lamps flickered on one by one.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs strings.Builder
			h := &Heuristic{Log: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))}
			out, err := h.Clean(context.Background(), tt.raw, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, out)
			}
			if !strings.Contains(logs.String(), tt.mode) {
				t.Fatalf("expected %s in logs, got %s", tt.mode, logs.String())
			}
		})
	}
}

func TestAICleanLogsSegmentSizes(t *testing.T) {
	var logs strings.Builder
	fc := &fakeCompleter{respond: func(_ int, p string) (string, error) { return p, nil }}
	ai := NewAI(fc, slog.New(slog.NewTextHandler(&logs, nil)), AIOptions{SegmentChars: 12, Backoff: noBackoff})
	ai.sleep = func(context.Context, time.Duration) error { return nil }

	if _, err := ai.Clean(context.Background(), "first line\nsecond line", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(logs.String(), "segment_chars=\"[10 11]\"") {
		t.Fatalf("expected segment sizes in start log, got %s", logs.String())
	}
}

func TestHeuristicStripsKnownTitles(t *testing.T) {
	raw := "A paragraph of text.\nMy Book 12\nMore text here."
	h := &Heuristic{KnownTitles: []string{"My Book"}}
	out, err := h.Clean(context.Background(), raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "My Book") {
		t.Fatalf("expected known title removed, got %q", out)
	}
}

func TestAICleanJoinsSegmentsInOrder(t *testing.T) {
	fc := &fakeCompleter{}
	raw := "aaaaa\nbbbbb\nccccc"
	a := newTestAI(fc, 5)

	fn, got := recordProgress()
	out, err := a.Clean(context.Background(), raw, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "clean:aaaaa\n\nclean:bbbbb\n\nclean:ccccc"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
	if fc.calls() != 3 {
		t.Fatalf("expected 3 calls, got %d", fc.calls())
	}
	for i, s := range fc.systems {
		if s != SystemPrompt {
			t.Fatalf("call %d: expected system prompt to be sent", i)
		}
	}

	values := got()
	if values[0] != 0.2 {
		t.Fatalf("expected first progress 0.2, got %v", values[0])
	}
	if last := values[len(values)-1]; last < 0.899 || last > 0.901 {
		t.Fatalf("expected final progress 0.9, got %v", last)
	}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("progress decreased at %d: %v", i, values)
		}
	}
}

func TestAICleanSkipsWhitespaceSegments(t *testing.T) {
	fc := &fakeCompleter{}
	raw := "aaaaa\n     \nbbbbb"
	a := newTestAI(fc, 5)

	fn, got := recordProgress()
	out, err := a.Clean(context.Background(), raw, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", fc.calls())
	}
	if out != "clean:aaaaa\n\nclean:bbbbb" {
		t.Fatalf("unexpected output %q", out)
	}
	// Start plus one report per segment, skipped ones included.
	if n := len(got()); n != 4 {
		t.Fatalf("expected 4 progress reports, got %d", n)
	}
}

func TestAICleanStripsCodeFence(t *testing.T) {
	fc := &fakeCompleter{respond: func(int, string) (string, error) {
		return "```text\n## Chapter 1\n\nHello.\n```", nil
	}}
	out, err := newTestAI(fc, 0).Clean(context.Background(), "raw", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "## Chapter 1\n\nHello." {
		t.Fatalf("expected fence stripped, got %q", out)
	}
}

func TestAICleanRetriesTransientErrors(t *testing.T) {
	fc := &fakeCompleter{respond: func(call int, p string) (string, error) {
		if call == 0 {
			return "", &llm.RetryableError{StatusCode: 429, Message: "slow down"}
		}
		return "ok", nil
	}}
	out, err := newTestAI(fc, 0).Clean(context.Background(), "raw", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("expected ok, got %q", out)
	}
	if fc.calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", fc.calls())
	}
}

func TestAICleanFailureIsProcessingError(t *testing.T) {
	boom := errors.New("invalid api key")
	fc := &fakeCompleter{respond: func(call int, p string) (string, error) {
		if call == 1 {
			return "", boom
		}
		return "fine", nil
	}}
	out, err := newTestAI(fc, 5).Clean(context.Background(), "aaaaa\nbbbbb\nccccc", nil)
	if out != "" {
		t.Fatalf("expected no partial output, got %q", out)
	}
	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
	if procErr.Segment != 1 {
		t.Fatalf("expected segment 1, got %d", procErr.Segment)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if fc.calls() != 2 {
		t.Fatalf("expected non-retryable error to stop after 2 calls, got %d", fc.calls())
	}
}

func TestAICleanEmptyResponseFails(t *testing.T) {
	fc := &fakeCompleter{respond: func(int, string) (string, error) { return "  ", nil }}
	_, err := newTestAI(fc, 0).Clean(context.Background(), "raw", nil)
	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
}

func TestAICleanStopsBetweenSegmentsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := &fakeCompleter{respond: func(call int, p string) (string, error) {
		cancel()
		return "done", nil
	}}
	_, err := newTestAI(fc, 5).Clean(ctx, "aaaaa\nbbbbb\nccccc", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		t.Fatalf("cancellation must not be reported as ProcessingError")
	}
	if fc.calls() != 1 {
		t.Fatalf("expected 1 call before stopping, got %d", fc.calls())
	}
}

func TestAICleanDelaysBetweenRequests(t *testing.T) {
	fc := &fakeCompleter{}
	a := NewAI(fc, quietLogger(), AIOptions{SegmentChars: 5, Delay: time.Second, Backoff: noBackoff})
	var slept []time.Duration
	a.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	if _, err := a.Clean(context.Background(), "aaaaa\nbbbbb\nccccc", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slept) != 2 {
		t.Fatalf("expected 2 delays for 3 requests, got %d", len(slept))
	}
	for _, d := range slept {
		if d != time.Second {
			t.Fatalf("expected 1s delay, got %v", d)
		}
	}
}

func TestFallbackUsesHeuristicOnProcessingError(t *testing.T) {
	fc := &fakeCompleter{respond: func(int, string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	f := &Fallback{
		Primary:   newTestAI(fc, 0),
		Secondary: &Heuristic{},
		Log:       quietLogger(),
	}

	res, err := f.Run(context.Background(), "This line is long enough to wrap\nand continues here.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cleaner != "heuristic" {
		t.Fatalf("expected heuristic result, got %q", res.Cleaner)
	}
	if res.FallbackErr == nil {
		t.Fatalf("expected FallbackErr to be set")
	}
	if res.Text != "This line is long enough to wrap and continues here." {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func TestFallbackPrimarySuccess(t *testing.T) {
	f := &Fallback{Primary: newTestAI(&fakeCompleter{}, 0), Secondary: &Heuristic{}}
	res, err := f.Run(context.Background(), "raw", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cleaner != "ai" || res.Text != "clean:raw" || res.FallbackErr != nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFallbackDoesNotMaskCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Fallback{Primary: newTestAI(&fakeCompleter{}, 0), Secondary: &Heuristic{}}
	_, err := f.Run(ctx, "raw", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFallbackWithoutPrimary(t *testing.T) {
	f := &Fallback{Secondary: &Heuristic{}}
	res, err := f.Run(context.Background(), "Chapter 1\nA body line that is long enough.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cleaner != "heuristic" || res.Text != "Chapter 1\n\nA body line that is long enough." {
		t.Fatalf("unexpected result %+v", res)
	}
}
