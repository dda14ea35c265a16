package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/textpub/internal/doctree"
)

const utf8BOM = "\uFEFF"

// TextParser handles plain text files. Lines are kept exactly as they
// appear so page numbers and running headers can be detected later.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return &doctree.Source{
		Title: titleFromFilename(filename),
		Text:  DecodeText(data),
	}, nil
}

// DecodeText converts raw bytes to UTF-8 text. Invalid sequences are
// dropped, a leading BOM is removed and line endings become "\n". Form
// feeds from page-split dumps are line breaks too.
func DecodeText(data []byte) string {
	s := strings.ToValidUTF8(string(data), "")
	s = strings.TrimPrefix(s, utf8BOM)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	return s
}
