// Package merger rebuilds paragraphs from hard-wrapped lines.
package merger

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/textpub/internal/doctree"
)

// Mode is the paragraph-boundary strategy for one document.
type Mode int

const (
	// ModeTerminator breaks paragraphs after lines ending in a sentence
	// terminator. Used when the source has no blank lines.
	ModeTerminator Mode = iota
	// ModeBlankLine trusts blank lines as the only paragraph breaks.
	ModeBlankLine
)

func (m Mode) String() string {
	if m == ModeBlankLine {
		return "blank_line"
	}
	return "terminator"
}

const (
	modeSampleLines    = 100
	shortHeadingMaxLen = 20
)

const (
	// headingTerminators disqualify a short line from being a heading.
	headingTerminators = ".!?\"”’'。！？"
	// paragraphTerminators end a paragraph in ModeTerminator.
	paragraphTerminators = ".!?\"”’'"
)

// DetectMode inspects the first 100 lines: any blank line selects
// ModeBlankLine.
func DetectMode(lines []string) Mode {
	n := min(len(lines), modeSampleLines)
	for _, line := range lines[:n] {
		if strings.TrimSpace(line) == "" {
			return ModeBlankLine
		}
	}
	return ModeTerminator
}

func endsWithAny(s, set string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	if size == 0 {
		return false
	}
	return strings.ContainsRune(set, r)
}

// IsShortHeading reports whether line is a standalone heading candidate:
// at most 20 characters after trimming and not ending like a sentence.
func IsShortHeading(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || utf8.RuneCountInString(s) > shortHeadingMaxLen {
		return false
	}
	return !endsWithAny(s, headingTerminators)
}

// ClassifyLine tags a cleaned line as blank, short heading or body.
func ClassifyLine(line string) doctree.LineClass {
	switch {
	case strings.TrimSpace(line) == "":
		return doctree.LineBlank
	case IsShortHeading(line):
		return doctree.LineShortHeading
	default:
		return doctree.LineBody
	}
}

// Paragraphs folds lines into paragraphs under the given mode.
func Paragraphs(lines []string, mode Mode) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range lines {
		s := strings.TrimSpace(line)

		switch ClassifyLine(s) {
		case doctree.LineBlank:
			flush()
			continue
		case doctree.LineShortHeading:
			flush()
			paragraphs = append(paragraphs, s)
			continue
		}

		if mode == ModeTerminator && len(current) > 0 && endsWithAny(current[len(current)-1], paragraphTerminators) {
			flush()
		}
		current = append(current, s)
	}
	flush()

	return paragraphs
}

// Merge detects the mode and joins the resulting paragraphs with blank lines.
func Merge(lines []string) string {
	return strings.Join(Paragraphs(lines, DetectMode(lines)), "\n\n")
}
