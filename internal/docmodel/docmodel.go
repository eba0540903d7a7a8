// Package docmodel provides the line-oriented document model shared by all
// output formats.
//
// A Document is an ordered sequence of text lines with lightweight Markdown
// semantics: headings ("# ", "## "), unordered list items ("- "), plain
// paragraphs and blank separators. Markdown output emits the lines verbatim;
// HTML output transforms them (see the docformat package).
package docmodel

import "strings"

// Document accumulates lines in render order.
type Document struct {
	lines []string
}

// New returns an empty Document.
func New() *Document {
	return &Document{}
}

// Heading appends a top-level heading line.
func (d *Document) Heading(text string) *Document {
	d.lines = append(d.lines, "# "+text)
	return d
}

// Subheading appends a second-level heading line.
func (d *Document) Subheading(text string) *Document {
	d.lines = append(d.lines, "## "+text)
	return d
}

// Item appends an unordered list entry.
func (d *Document) Item(text string) *Document {
	d.lines = append(d.lines, "- "+text)
	return d
}

// Text appends a plain paragraph line.
func (d *Document) Text(text string) *Document {
	d.lines = append(d.lines, text)
	return d
}

// Blank appends an empty separator line.
func (d *Document) Blank() *Document {
	d.lines = append(d.lines, "")
	return d
}

// Lines returns a copy of the accumulated lines.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Join renders lines into file content, terminated by a single newline.
func Join(lines []string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Bytes renders the document as Markdown file content.
func (d *Document) Bytes() []byte {
	return Join(d.lines)
}
