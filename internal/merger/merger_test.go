package merger

import (
	"slices"
	"strings"
	"testing"

	"github.com/dgallion1/textpub/internal/doctree"
)

func TestDetectMode(t *testing.T) {
	noBlank := make([]string, 150)
	for i := range noBlank {
		noBlank[i] = "line"
	}
	lateBlank := slices.Clone(noBlank)
	lateBlank[120] = ""
	earlyBlank := slices.Clone(noBlank)
	earlyBlank[99] = "   "

	tests := []struct {
		name  string
		lines []string
		want  Mode
	}{
		{"no blank lines", noBlank, ModeTerminator},
		{"blank after sample window", lateBlank, ModeTerminator},
		{"whitespace line inside window", earlyBlank, ModeBlankLine},
		{"empty input", nil, ModeTerminator},
	}
	for _, tt := range tests {
		if got := DetectMode(tt.lines); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestIsShortHeading(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Intro", true},
		{"  Chapter 3  ", true},
		{"The End.", false},
		{"Really?", false},
		{"“Quoted”", false},
		{"끝났다。", false},
		{"", false},
		{strings.Repeat("a", 20), true},
		{strings.Repeat("a", 21), false},
		{"제1장 왜 우리는 수학을 공부하는가", true},
	}
	for _, tt := range tests {
		if got := IsShortHeading(tt.line); got != tt.want {
			t.Errorf("IsShortHeading(%q): expected %v, got %v", tt.line, tt.want, got)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	if ClassifyLine("  ") != doctree.LineBlank {
		t.Error("expected blank")
	}
	if ClassifyLine("Prologue") != doctree.LineShortHeading {
		t.Error("expected short heading")
	}
	if ClassifyLine("This line is clearly longer than twenty characters") != doctree.LineBody {
		t.Error("expected body")
	}
}

func TestMerge_ShortHeadingIsolatedInBlankLineMode(t *testing.T) {
	lines := []string{
		"Intro",
		"",
		"This is a long sentence that continues onto the next physical line",
		"without terminating here.",
	}
	got := Merge(lines)
	want := "Intro\n\nThis is a long sentence that continues onto the next physical line without terminating here."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMerge_BlankLineModeIgnoresTerminators(t *testing.T) {
	lines := []string{
		"",
		"The first sentence of the paragraph ends here.",
		"But the paragraph keeps going on this line.",
		"",
		"A second paragraph that stands on its own line.",
	}
	got := Merge(lines)
	want := "The first sentence of the paragraph ends here. But the paragraph keeps going on this line.\n\nA second paragraph that stands on its own line."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMerge_TerminatorModeBoundary(t *testing.T) {
	got := Paragraphs([]string{"The cat sat.", "The dog ran."}, DetectMode([]string{"The cat sat.", "The dog ran."}))
	want := []string{"The cat sat.", "The dog ran."}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if s := Merge([]string{"The cat sat.", "The dog ran."}); s != "The cat sat.\n\nThe dog ran." {
		t.Errorf("unexpected merge output %q", s)
	}
}

func TestMerge_TerminatorModeJoinsWraps(t *testing.T) {
	lines := []string{
		"It was the best of times, it was the worst of times,",
		"it was the age of wisdom, it was the age of foolishness.",
		"There were a king with a large jaw and a queen with a plain",
		"face, on the throne of England.",
	}
	got := Paragraphs(lines, ModeTerminator)
	want := []string{
		"It was the best of times, it was the worst of times, it was the age of wisdom, it was the age of foolishness.",
		"There were a king with a large jaw and a queen with a plain face, on the throne of England.",
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMerge_NoBlankNoTerminatorsIsOneParagraph(t *testing.T) {
	lines := []string{
		"this line has no ending punctuation at all",
		"and neither does this fairly long second line",
		"nor the third one which is also quite long",
	}
	got := Paragraphs(lines, DetectMode(lines))
	if len(got) != 1 {
		t.Fatalf("expected 1 paragraph, got %d: %q", len(got), got)
	}
	if got[0] != strings.Join(lines, " ") {
		t.Errorf("expected lines joined by single spaces, got %q", got[0])
	}
}

func TestMerge_AllBlankIsEmpty(t *testing.T) {
	for _, lines := range [][]string{nil, {""}, {"", "   ", "\t"}} {
		if got := Merge(lines); got != "" {
			t.Errorf("expected empty output for %q, got %q", lines, got)
		}
	}
}

func TestMerge_HeadingFlushesPending(t *testing.T) {
	lines := []string{
		"A body line that is long enough to be body text",
		"Part Two",
		"Another body line that is long enough to be body",
	}
	got := Paragraphs(lines, ModeTerminator)
	want := []string{
		"A body line that is long enough to be body text",
		"Part Two",
		"Another body line that is long enough to be body",
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMerge_TrimsFragments(t *testing.T) {
	lines := []string{"   leading whitespace is removed from fragments", "\ttabs too are removed from every line\t"}
	got := Merge(lines)
	want := "leading whitespace is removed from fragments tabs too are removed from every line"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
