// Package classify turns cleaned text into heading and paragraph blocks.
//
// The heading rules are regex based and permissive; false positives and
// false negatives are expected on unusual books.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/textpub/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	maxHeadingLen = 100
	anchorPrefix  = 10
)

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^chapter\s+\p{Nd}+`), // "Chapter 1", "Chapter 1: Title"
	regexp.MustCompile(`^\p{Nd}+\.\s+`),          // "1. Title"
	regexp.MustCompile(`^제\s*\p{Nd}+\s*장`),       // "제1장", "제 12 장"
	regexp.MustCompile(`^\p{Nd}+$`),              // "7"
}

// IsHeading reports whether a paragraph is a chapter-level heading.
func IsHeading(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" || utf8.RuneCountInString(s) >= maxHeadingLen {
		return false
	}
	for _, re := range headingPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Anchor derives a link target from the first characters of a heading.
// Runs of non-alphanumeric characters collapse to a single underscore.
func Anchor(text string) string {
	s := strings.TrimSpace(text)
	if n := utf8.RuneCountInString(s); n > anchorPrefix {
		s = string([]rune(s)[:anchorPrefix])
	}

	var sb strings.Builder
	sep := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			sep = false
			continue
		}
		if !sep {
			sb.WriteByte('_')
			sep = true
		}
	}
	anchor := sb.String()
	if anchor == "" {
		return "heading"
	}
	// XML ids may not start with a digit.
	if r, _ := utf8.DecodeRuneInString(anchor); unicode.IsDigit(r) {
		anchor = "ch_" + anchor
	}
	return anchor
}

// Classify decides whether a single paragraph is a heading or body text.
func Classify(text string) doctree.Block {
	s := strings.TrimSpace(text)
	if IsHeading(s) {
		return doctree.Block{Kind: doctree.BlockHeading, Text: s, Anchor: Anchor(s)}
	}
	return doctree.Block{Kind: doctree.BlockParagraph, Text: s}
}

// Blocks splits cleaned text on blank lines and classifies each paragraph.
// Markdown ATX headings ("## Chapter Name") from the LLM cleaner are always
// headings. Anchors are unique within the result.
func Blocks(cleaned string) []doctree.Block {
	var blocks []doctree.Block
	var para []string

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, classifyParagraph(para)...)
			para = para[:0]
		}
	}

	for _, line := range doctree.Lines(cleaned) {
		s := strings.TrimSpace(line)
		if s == "" {
			flush()
			continue
		}
		para = append(para, s)
	}
	flush()

	uniqueAnchors(blocks)
	return blocks
}

func classifyParagraph(lines []string) []doctree.Block {
	if title, ok := atxHeading(lines[0]); ok {
		out := []doctree.Block{{Kind: doctree.BlockHeading, Text: title, Anchor: Anchor(title)}}
		if len(lines) > 1 {
			out = append(out, classifyParagraph(lines[1:])...)
		}
		return out
	}
	return []doctree.Block{Classify(strings.Join(lines, " "))}
}

var md = goldmark.New()

// atxHeading parses a single line as Markdown and returns the heading text
// when the line is an ATX heading.
func atxHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	src := []byte(line)
	doc := md.Parser().Parse(text.NewReader(src))
	h, ok := doc.FirstChild().(*ast.Heading)
	if !ok {
		return "", false
	}
	title := strings.TrimSpace(string(h.Text(src)))
	if title == "" {
		return "", false
	}
	return title, true
}

func uniqueAnchors(blocks []doctree.Block) {
	seen := make(map[string]int)
	for i := range blocks {
		a := blocks[i].Anchor
		if a == "" {
			continue
		}
		seen[a]++
		if n := seen[a]; n > 1 {
			blocks[i].Anchor = fmt.Sprintf("%s_%d", a, n)
		}
	}
}
