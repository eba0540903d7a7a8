// Package docwriter owns the collection of node interface models and writes
// the rendered documentation tree: one file per node plus a manifest.
package docwriter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/rosautodoc/rosautodoc/internal/docformat"
	"github.com/rosautodoc/rosautodoc/internal/docmodel"
	"github.com/rosautodoc/rosautodoc/internal/nodedoc"
)

// Writer accumulates documentation facts for a set of nodes.
//
// When constructed with an explicit tracking list, facts for other nodes are
// silently dropped. With an empty list every node is documented, and models
// are created on first fact. Models are never removed during a run.
type Writer struct {
	tracked []string
	nodes   map[string]*nodedoc.NodeInterface
}

// New creates a Writer tracking the given node names. An empty list tracks
// every node seen.
func New(trackedNames []string) *Writer {
	w := &Writer{
		tracked: append([]string(nil), trackedNames...),
		nodes:   make(map[string]*nodedoc.NodeInterface, len(trackedNames)),
	}
	for _, name := range trackedNames {
		w.nodes[name] = nodedoc.New(name)
	}
	return w
}

// AddParam records a parameter fact for a node.
func (w *Writer) AddParam(nodeName, param string) {
	if n := w.node(nodeName); n != nil {
		n.AddParam(param)
	}
}

// AddPub records a published-topic fact for a node.
func (w *Writer) AddPub(nodeName, topic, topicType string) {
	if n := w.node(nodeName); n != nil {
		n.AddPub(topic, topicType)
	}
}

// AddSub records a subscribed-topic fact for a node.
func (w *Writer) AddSub(nodeName, topic, topicType string) {
	if n := w.node(nodeName); n != nil {
		n.AddSub(topic, topicType)
	}
}

// AddService records a service fact for a node.
func (w *Writer) AddService(nodeName, service, serviceType string) {
	if n := w.node(nodeName); n != nil {
		n.AddService(service, serviceType)
	}
}

// node resolves the model a fact should be routed to, or nil when the node
// is not tracked. In track-everything mode models are created on first use.
func (w *Writer) node(nodeName string) *nodedoc.NodeInterface {
	if n, ok := w.nodes[nodeName]; ok {
		return n
	}
	if len(w.tracked) > 0 {
		return nil
	}
	n := nodedoc.New(nodeName)
	w.nodes[nodeName] = n
	return n
}

// Names returns the known node names sorted lexicographically.
func (w *Writer) Names() []string {
	names := make([]string, 0, len(w.nodes))
	for name := range w.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderAll writes one document per known node into outputDir, then a
// manifest linking them (README.md for Markdown, index.html for HTML).
// File write errors propagate; nothing is retried or cleaned up.
func (w *Writer) RenderAll(outputDir string, format docformat.Format) error {
	for _, name := range w.Names() {
		node := w.nodes[name]
		slog.Info("Documenting node", "node", name)

		path := filepath.Join(outputDir, node.FileStem()+"."+format.Extension())
		if err := writeLines(path, node.Render().Lines(), format); err != nil {
			return fmt.Errorf("failed to document node %s: %w", name, err)
		}
	}

	if len(w.nodes) == 0 {
		return nil
	}

	slog.Info("Creating documentation manifest")
	return w.writeManifest(outputDir, format)
}

// ManifestName returns the manifest's file name for a format.
func ManifestName(format docformat.Format) string {
	if format == docformat.HTML {
		return "index." + format.Extension()
	}
	return "README." + format.Extension()
}

func (w *Writer) writeManifest(outputDir string, format docformat.Format) error {
	doc := docmodel.New()
	doc.Heading("ROS system documentation").Blank()
	doc.Subheading("Nodes").Blank()

	for _, name := range w.Names() {
		stem := w.nodes[name].FileStem()
		if format == docformat.HTML {
			doc.Item(fmt.Sprintf("<a href=%q>%s</a>", stem+".html", name))
		} else {
			doc.Item(fmt.Sprintf("[%s](%s.md)", name, stem))
		}
	}

	path := filepath.Join(outputDir, ManifestName(format))
	if err := writeLines(path, doc.Lines(), format); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func writeLines(path string, lines []string, format docformat.Format) error {
	if format == docformat.HTML {
		lines = docformat.MarkdownToHTML(lines)
	}
	return os.WriteFile(path, docmodel.Join(lines), 0o644)
}
