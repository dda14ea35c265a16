// Package noise strips page numbers and running headers/footers from raw
// book text.
//
// Detection is statistical: lines sitting next to page-number lines are
// tallied, and any content seen there HeaderThreshold or more times is treated
// as a running header and removed everywhere in the document. The recurring
// header set is only known after a full pass, so Analyze makes two passes over
// an in-memory line slice.
package noise

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/textpub/internal/doctree"
)

const (
	// HeaderThreshold is the neighbor count at which content becomes a
	// recurring header.
	HeaderThreshold = 3

	// maxNeighborLen bounds the length (in runes) of content that may be
	// tallied. Running headers are short.
	maxNeighborLen = 100
)

// pageNumberRe matches lines like "12", "- 42 -", "[7]".
var pageNumberRe = regexp.MustCompile(`^[\s\-]*\[?\p{Nd}+\]?[\s\-]*$`)

// IsPageNumber reports whether line is a page-number-only line. Padding is
// trimmed first so Unicode spaces (NBSP, ideographic space) are ignored.
func IsPageNumber(line string) bool {
	return pageNumberRe.MatchString(strings.TrimSpace(line))
}

// isDigits reports whether s is non-empty and made only of decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Tally counts trimmed line content adjacent to page-number lines.
type Tally map[string]int

// Add increments the count for a neighbor line if it qualifies.
func (t Tally) Add(line string) {
	s := strings.TrimSpace(line)
	if s == "" || utf8.RuneCountInString(s) >= maxNeighborLen {
		return
	}
	t[s]++
}

// Headers returns the set of content whose count reached HeaderThreshold.
func (t Tally) Headers() map[string]struct{} {
	out := make(map[string]struct{})
	for content, n := range t {
		if n >= HeaderThreshold {
			out[content] = struct{}{}
		}
	}
	return out
}

// BuildTally runs the first pass: find page-number lines and tally their
// immediate neighbors.
func BuildTally(lines []string) Tally {
	tally := make(Tally)
	for i, line := range lines {
		if !IsPageNumber(line) {
			continue
		}
		if i > 0 {
			tally.Add(lines[i-1])
		}
		if i < len(lines)-1 {
			tally.Add(lines[i+1])
		}
	}
	return tally
}

// Classify tags a line given the recurring header set. Lines that survive
// noise removal are tagged LineBlank or LineBody.
func Classify(line string, headers map[string]struct{}) doctree.LineClass {
	if IsPageNumber(line) {
		return doctree.LinePageNumber
	}
	s := strings.TrimSpace(line)
	if _, ok := headers[s]; ok {
		return doctree.LineRecurringHeader
	}
	if isDigits(s) {
		return doctree.LinePageNumber
	}
	if s == "" {
		return doctree.LineBlank
	}
	return doctree.LineBody
}

// Report summarizes what a noise pass removed.
type Report struct {
	PageNumbers      int      `json:"page_numbers"`
	HeaderLines      int      `json:"header_lines"`
	RecurringHeaders []string `json:"recurring_headers"`
}

// Removed returns the total number of dropped lines.
func (r Report) Removed() int {
	return r.PageNumbers + r.HeaderLines
}

// Analyze strips noise lines and reports what was removed.
func Analyze(lines []string) ([]string, Report) {
	headers := BuildTally(lines).Headers()

	var rep Report
	for h := range headers {
		rep.RecurringHeaders = append(rep.RecurringHeaders, h)
	}
	sort.Strings(rep.RecurringHeaders)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		switch Classify(line, headers) {
		case doctree.LinePageNumber:
			rep.PageNumbers++
		case doctree.LineRecurringHeader:
			rep.HeaderLines++
		default:
			out = append(out, line)
		}
	}
	return out, rep
}

// DetectAndStrip removes page-number lines, recurring headers/footers and
// digit-only lines. Input without page-number lines passes through unchanged.
func DetectAndStrip(lines []string) []string {
	out, _ := Analyze(lines)
	return out
}

// StripKnownTitles drops short lines that carry a known chapter title next to
// a number, e.g. "12 The Fox and Hound" when "The Fox and Hound" is known.
// Bare page numbers are dropped too.
func StripKnownTitles(lines []string, titles []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if IsPageNumber(s) {
			continue
		}
		if isTitleHeader(s, titles) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func isTitleHeader(s string, titles []string) bool {
	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return false
	}
	n := utf8.RuneCountInString(s)
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" || !strings.Contains(s, title) {
			continue
		}
		if n < utf8.RuneCountInString(title)+10 {
			return true
		}
	}
	return false
}
