package epub

import (
	"fmt"
	"strings"
)

type tocEntry struct {
	label string
	href  string
}

// tocEntries lists headings in order, or the whole content when the
// document has none.
func (b *Builder) tocEntries() []tocEntry {
	var entries []tocEntry
	for _, h := range b.doc.Headings() {
		href := contentFile
		if h.Anchor != "" {
			href += "#" + h.Anchor
		}
		entries = append(entries, tocEntry{label: h.Text, href: href})
	}
	if len(entries) == 0 {
		entries = append(entries, tocEntry{label: b.doc.Title, href: contentFile})
	}
	return entries
}

// generateNavigation creates the nav.xhtml navigation document.
func (b *Builder) generateNavigation() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
  <title>Table of Contents</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>Table of Contents</h1>
    <ol>
`)

	for _, e := range b.tocEntries() {
		fmt.Fprintf(&sb, "      <li><a href=\"%s\">%s</a></li>\n", escapeXML(e.href), escapeXML(e.label))
	}

	sb.WriteString(`    </ol>
  </nav>
</body>
</html>
`)

	return sb.String()
}

// generateNCX creates the toc.ncx for ePub 2 readers.
func (b *Builder) generateNCX() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="`)
	sb.WriteString(escapeXML(b.identifier))
	sb.WriteString(`"/>
    <meta name="dtb:depth" content="1"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle>
    <text>`)
	sb.WriteString(escapeXML(b.doc.Title))
	sb.WriteString(`</text>
  </docTitle>
  <navMap>
`)

	for i, e := range b.tocEntries() {
		fmt.Fprintf(&sb, "    <navPoint id=\"navpoint-%d\" playOrder=\"%d\">\n", i+1, i+1)
		fmt.Fprintf(&sb, "      <navLabel><text>%s</text></navLabel>\n", escapeXML(e.label))
		fmt.Fprintf(&sb, "      <content src=\"%s\"/>\n", escapeXML(e.href))
		sb.WriteString("    </navPoint>\n")
	}

	sb.WriteString(`  </navMap>
</ncx>
`)

	return sb.String()
}
