package epub

import (
	"fmt"
	"strings"

	"github.com/dgallion1/textpub/internal/doctree"
)

// generateContent renders every block into a single XHTML document:
// the book title as <h1>, headings as <h2 id=anchor>, the rest as <p>.
func (b *Builder) generateContent() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="%s" lang="%s">
<head>
  <title>%s</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body>
`, escapeXML(b.doc.Language), escapeXML(b.doc.Language), escapeXML(b.doc.Title))

	fmt.Fprintf(&sb, "<h1>%s</h1>\n", escapeXML(b.doc.Title))
	for _, block := range b.doc.Blocks {
		sb.WriteString(renderBlock(block))
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func renderBlock(block doctree.Block) string {
	text := strings.TrimSpace(block.Text)
	if text == "" {
		return ""
	}
	if block.IsHeading() {
		if block.Anchor == "" {
			return fmt.Sprintf("<h2>%s</h2>\n", escapeXML(text))
		}
		return fmt.Sprintf("<h2 id=\"%s\">%s</h2>\n", escapeXML(block.Anchor), escapeXML(text))
	}
	return fmt.Sprintf("<p>%s</p>\n", escapeXML(text))
}
