// Package chunker splits long text into bounded segments for LLM requests.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultSegmentChars is the target upper bound of one segment.
const DefaultSegmentChars = 10000

// SplitLines groups lines into segments of at most maxChars characters.
// Boundaries fall between lines. Each line costs its length plus one for
// the newline. A single line longer than maxChars becomes its own segment.
func SplitLines(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultSegmentChars
	}
	if text == "" {
		return nil
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	var segments []string
	var current []string
	size := 0

	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if size+n > maxChars && len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n"))
			current = current[:0]
			size = 0
		}
		current = append(current, line)
		size += n + 1
	}

	if len(current) > 0 {
		segments = append(segments, strings.Join(current, "\n"))
	}

	return segments
}

// Sizes returns the character count of each segment.
func Sizes(segments []string) []int {
	out := make([]int, len(segments))
	for i, s := range segments {
		out[i] = utf8.RuneCountInString(s)
	}
	return out
}

// EstimateTokens approximates the model token count at 1.33 tokens per
// word. Any non-empty text counts as at least one token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(len(strings.Fields(text))*133/100, 1)
}
