// Package epub packages a classified document as an EPUB 3 file.
package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/textpub/internal/doctree"
)

const (
	defaultLanguage = "en"
	defaultTitle    = "Untitled"

	contentFile = "content.xhtml"
)

// Builder creates EPUB 3 files from a single document.
type Builder struct {
	doc        doctree.Document
	identifier string
	modified   time.Time
}

// NewBuilder creates a builder with a fresh urn:uuid identifier.
func NewBuilder(doc doctree.Document) *Builder {
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = defaultTitle
	}
	if strings.TrimSpace(doc.Language) == "" {
		doc.Language = defaultLanguage
	}
	return &Builder{
		doc:        doc,
		identifier: "urn:uuid:" + uuid.New().String(),
		modified:   time.Now().UTC(),
	}
}

// WithIdentifier overrides the package identifier.
func (b *Builder) WithIdentifier(id string) *Builder {
	b.identifier = id
	return b
}

// WithModified overrides the dcterms:modified timestamp.
func (b *Builder) WithModified(t time.Time) *Builder {
	b.modified = t.UTC()
	return b
}

// Identifier returns the package identifier written to the OPF and NCX.
func (b *Builder) Identifier() string {
	return b.identifier
}

// Write packages doc to w.
func Write(w io.Writer, doc doctree.Document) error {
	_, err := NewBuilder(doc).WriteTo(w)
	return err
}

// Build packages doc into a file at outputPath.
func Build(outputPath string, doc doctree.Document) error {
	return NewBuilder(doc).Build(outputPath)
}

// Build generates the epub and writes it to the specified path.
func (b *Builder) Build(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		os.Remove(outputPath)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// BuildToBuffer generates the epub and returns it as a byte buffer.
func (b *Builder) BuildToBuffer() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if _, err := b.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

type entry struct {
	name    string
	content func() string
}

// WriteTo writes the epub to w and reports the archive size. It
// implements io.WriterTo.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	// mimetype must be first and stored uncompressed.
	if err := b.writeMimetype(zw); err != nil {
		zw.Close()
		return cw.n, err
	}

	entries := []entry{
		{"META-INF/container.xml", func() string { return containerXML }},
		{"OEBPS/content.opf", b.generatePackage},
		{"OEBPS/nav.xhtml", b.generateNavigation},
		{"OEBPS/toc.ncx", b.generateNCX},
		{"OEBPS/styles/style.css", func() string { return defaultStylesheet }},
		{"OEBPS/" + contentFile, b.generateContent},
	}
	for _, e := range entries {
		if err := writeEntry(zw, e.name, e.content()); err != nil {
			zw.Close()
			return cw.n, err
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("finalize epub: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (b *Builder) writeMimetype(zw *zip.Writer) error {
	header := &zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create mimetype: %w", err)
	}
	_, err = w.Write([]byte("application/epub+zip"))
	return err
}

func writeEntry(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const defaultStylesheet = `body {
  font-family: Georgia, "Times New Roman", serif;
  font-size: 1em;
  line-height: 1.6;
  margin: 1em;
  text-align: justify;
}

h1, h2 {
  font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  font-weight: bold;
  margin-top: 1.5em;
  margin-bottom: 0.5em;
  text-align: left;
}

h1 {
  font-size: 1.8em;
  text-align: center;
}

h2 {
  font-size: 1.4em;
  page-break-before: always;
}

p {
  margin: 0.5em 0;
  text-indent: 1.5em;
}

h1 + p, h2 + p {
  text-indent: 0;
}

nav ol {
  list-style: none;
  padding-left: 0;
}
`
