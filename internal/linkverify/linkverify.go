// Package linkverify checks that the links in a rendered manifest resolve to
// files in the output directory. It is a warn-only post-render pass; broken
// links are reported, never fixed.
package linkverify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/rosautodoc/rosautodoc/internal/docformat"
	"github.com/rosautodoc/rosautodoc/internal/docwriter"
)

// VerifyManifest parses the manifest in outputDir and returns the link
// destinations that do not exist as files next to it.
func VerifyManifest(outputDir string, format docformat.Format) ([]string, error) {
	path := filepath.Join(outputDir, docwriter.ManifestName(format))
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var links []string
	if format == docformat.HTML {
		links, err = extractHTMLLinks(content)
	} else {
		links = extractMarkdownLinks(content)
	}
	if err != nil {
		return nil, err
	}

	var broken []string
	for _, link := range links {
		if isExternal(link) {
			continue
		}
		if _, err := os.Stat(filepath.Join(outputDir, link)); err != nil {
			broken = append(broken, link)
		}
	}
	return broken, nil
}

// extractMarkdownLinks walks the Goldmark AST and collects inline link
// destinations.
func extractMarkdownLinks(body []byte) []string {
	root := goldmark.New().Parser().Parse(gmtext.NewReader(body))

	var links []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if link, ok := n.(*gmast.Link); ok {
			links = append(links, string(link.Destination))
		}
		return gmast.WalkContinue, nil
	})
	return links
}

// extractHTMLLinks collects anchor hrefs from an HTML document.
func extractHTMLLinks(content []byte) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest HTML: %w", err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func isExternal(link string) bool {
	return strings.Contains(link, "://") || strings.HasPrefix(link, "mailto:")
}
