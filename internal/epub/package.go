package epub

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// generatePackage creates the content.opf package document.
func (b *Builder) generatePackage() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="pub-id" xml:lang="`)
	sb.WriteString(escapeXML(b.doc.Language))
	sb.WriteString(`">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
`)

	fmt.Fprintf(&sb, "    <dc:identifier id=\"pub-id\">%s</dc:identifier>\n", escapeXML(b.identifier))
	fmt.Fprintf(&sb, "    <dc:title>%s</dc:title>\n", escapeXML(b.doc.Title))
	if b.doc.Author != "" {
		fmt.Fprintf(&sb, "    <dc:creator>%s</dc:creator>\n", escapeXML(b.doc.Author))
	}
	fmt.Fprintf(&sb, "    <dc:language>%s</dc:language>\n", escapeXML(b.doc.Language))
	fmt.Fprintf(&sb, "    <meta property=\"dcterms:modified\">%s</meta>\n",
		b.modified.Format("2006-01-02T15:04:05Z"))

	sb.WriteString("  </metadata>\n\n")

	sb.WriteString("  <manifest>\n")
	sb.WriteString("    <item id=\"nav\" href=\"nav.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\"/>\n")
	sb.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	sb.WriteString("    <item id=\"style\" href=\"styles/style.css\" media-type=\"text/css\"/>\n")
	fmt.Fprintf(&sb, "    <item id=\"content\" href=\"%s\" media-type=\"application/xhtml+xml\"/>\n", contentFile)
	sb.WriteString("  </manifest>\n\n")

	sb.WriteString("  <spine toc=\"ncx\">\n")
	sb.WriteString("    <itemref idref=\"nav\" linear=\"no\"/>\n")
	sb.WriteString("    <itemref idref=\"content\"/>\n")
	sb.WriteString("  </spine>\n")

	sb.WriteString("</package>\n")

	return sb.String()
}

// escapeXML escapes text and attribute values. Runes outside the XML 1.0
// Char range are dropped; form feeds and vertical tabs become spaces.
func escapeXML(s string) string {
	return html.EscapeString(strings.Map(xmlChar, s))
}

func xmlChar(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return r
	case r == '\f' || r == '\v':
		return ' '
	case r < 0x20, r == 0xFFFE, r == 0xFFFF:
		return -1
	}
	return r
}
