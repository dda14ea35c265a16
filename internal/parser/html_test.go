package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_BlocksAndHeadings(t *testing.T) {
	input := `<html><head><title>My Book</title><style>p{}</style></head>
<body>
<nav>skip me</nav>
<h1>Chapter 1</h1>
<p>First <em>paragraph</em>.</p>
<ul><li>item one</li><li>item two</li></ul>
<script>var x = 1;</script>
</body></html>`

	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "book.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "My Book" {
		t.Errorf("expected title from <title>, got %q", src.Title)
	}

	want := "## Chapter 1\n\nFirst paragraph.\n\nitem one\n\nitem two"
	if src.Text != want {
		t.Errorf("expected %q, got %q", want, src.Text)
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader("<p>hi</p>"), "page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "page" {
		t.Errorf("expected title %q, got %q", "page", src.Title)
	}
	if src.Text != "hi" {
		t.Errorf("expected %q, got %q", "hi", src.Text)
	}
}
