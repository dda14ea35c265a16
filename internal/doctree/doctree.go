package doctree

import "strings"

// Source is the raw text extracted from an input file, before any cleaning.
type Source struct {
	Title string // Document title (from metadata or filename)
	Text  string // Raw text, newline separated, valid UTF-8
}

// LineClass tags a single raw line during one conversion.
type LineClass int

const (
	LineBody LineClass = iota
	LineBlank
	LinePageNumber
	LineRecurringHeader
	LineShortHeading
)

func (c LineClass) String() string {
	switch c {
	case LineBlank:
		return "blank"
	case LinePageNumber:
		return "page_number"
	case LineRecurringHeader:
		return "recurring_header"
	case LineShortHeading:
		return "short_heading"
	default:
		return "body"
	}
}

// BlockKind distinguishes headings from body paragraphs in the final output.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
)

// Block is one unit of structured output, ready for rendering.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Text   string    `json:"text"`
	Anchor string    `json:"anchor,omitempty"` // Set for headings only
}

// IsHeading reports whether the block is a chapter-level heading.
func (b Block) IsHeading() bool {
	return b.Kind == BlockHeading
}

// Document is a classified book handed to the EPUB sink.
type Document struct {
	Title    string
	Author   string
	Language string // ISO 639-1 code (e.g., "en")
	Blocks   []Block
}

// Headings returns the heading blocks in document order.
func (d Document) Headings() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.IsHeading() {
			out = append(out, b)
		}
	}
	return out
}

// Lines splits text into lines, treating \r\n and \r as line breaks.
// A trailing line break does not produce an empty final line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
