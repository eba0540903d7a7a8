// Package docformat defines the supported documentation output formats and
// the conversion from the line-based Markdown model to HTML.
package docformat

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies a documentation output format.
type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// Supported lists the valid formats in presentation order.
var Supported = []Format{Markdown, HTML}

// ErrUnsupported is returned by Parse for unknown format identifiers.
var ErrUnsupported = errors.New("unsupported documentation format")

// Parse validates a user-supplied format identifier (case-insensitive).
func Parse(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Supported {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// Extension returns the file extension (without dot) for the format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return "html"
	default:
		return "md"
	}
}

// MarkdownToHTML converts the line-based Markdown model into HTML lines.
//
// Only the constructs the document model produces are handled: "#"/"##"
// headings become h1/h2, runs of "- " items become a ul of li elements,
// non-blank text becomes a paragraph, blank lines pass through.
func MarkdownToHTML(lines []string) []string {
	htmlLines := []string{
		"<html>",
		"<head></head>",
	}

	inList := false
	for _, line := range lines {
		isItem := false
		switch {
		case strings.HasPrefix(line, "## "):
			line = "<h2>" + line[3:] + "</h2>"
		case strings.HasPrefix(line, "# "):
			line = "<h1>" + line[2:] + "</h1>"
		case strings.HasPrefix(line, "- "):
			isItem = true
			if !inList {
				htmlLines = append(htmlLines, "<ul>")
				inList = true
			}
			line = "<li>" + line[2:] + "</li>"
		case strings.TrimSpace(line) != "":
			line = "<p>" + line + "</p>"
		}

		if !isItem && inList {
			htmlLines = append(htmlLines, "</ul>")
			inList = false
		}
		htmlLines = append(htmlLines, line)
	}
	if inList {
		htmlLines = append(htmlLines, "</ul>")
	}

	return append(htmlLines, "</html>")
}
