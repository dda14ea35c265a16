package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/textpub/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings of any
// level are normalised to "## ".
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := []byte(DecodeText(raw))

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if t := strings.TrimSpace(string(node.Text(src))); t != "" {
				blocks = append(blocks, headingLine(t))
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
			continue
		default:
			if t := extractText(n, src); t != "" {
				blocks = append(blocks, t)
			}
		}
	}

	return &doctree.Source{
		Title: titleFromFilename(filename),
		Text:  joinBlocks(blocks),
	}, nil
}

// extractText gets the text content of a goldmark AST node. Leaf blocks
// such as code blocks carry raw lines; everything else is read from its
// inline children so text is not collected twice.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(src))
			if c.HardLineBreak() || c.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(c.Value)
		default:
			buf.WriteString(extractText(c, src))
			if c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
