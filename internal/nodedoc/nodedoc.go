// Package nodedoc models the observed interface of a single ROS node:
// the parameters it touches and the topics and services it registers.
package nodedoc

import (
	"sort"
	"strings"

	"github.com/rosautodoc/rosautodoc/internal/docmodel"
	"github.com/rosautodoc/rosautodoc/internal/util/sets"
)

// todoDesc tags entries whose description must be filled in by hand.
const todoDesc = "TODO: description"

// UnknownType marks interface elements whose type is not observable from the
// intercepted registration call (services carry no type on the wire).
const UnknownType = "UNKNOWN"

// NodeInterface accumulates the interface facts observed for one node.
//
// Names are stored fully qualified; private-namespace ("~") shortening only
// happens at render time so repeated additions deduplicate correctly.
type NodeInterface struct {
	name     string
	params   sets.Set[string]
	pubs     map[string]string
	subs     map[string]string
	services map[string]string
}

// New creates an empty interface model for the named node. Node names are
// expected to be absolute (leading "/").
func New(name string) *NodeInterface {
	return &NodeInterface{
		name:     name,
		params:   sets.New[string](),
		pubs:     map[string]string{},
		subs:     map[string]string{},
		services: map[string]string{},
	}
}

// Name returns the node's fully qualified name.
func (n *NodeInterface) Name() string { return n.name }

// AddParam records a parameter touched by the node. Idempotent.
func (n *NodeInterface) AddParam(param string) {
	n.params.Add(param)
}

// AddPub records a published topic. A repeated topic overwrites its type.
func (n *NodeInterface) AddPub(topic, topicType string) {
	n.pubs[topic] = topicType
}

// AddSub records a subscribed topic. A repeated topic overwrites its type.
func (n *NodeInterface) AddSub(topic, topicType string) {
	n.subs[topic] = topicType
}

// AddService records an offered service. A repeated service overwrites its type.
func (n *NodeInterface) AddService(service, serviceType string) {
	n.services[service] = serviceType
}

// FileStem derives a filesystem-safe identifier from the node name: every
// namespace separator becomes an underscore, and the leading underscore from
// the absolute-name prefix is stripped.
func (n *NodeInterface) FileStem() string {
	stem := strings.ReplaceAll(n.name, "/", "_")
	return strings.TrimPrefix(stem, "_")
}

// relativeName shortens a name inside this node's private namespace: a
// literal leading n.name is replaced by "~". Other names pass through.
func (n *NodeInterface) relativeName(full string) string {
	if strings.HasPrefix(full, n.name) {
		return "~" + full[len(n.name):]
	}
	return full
}

// Render produces the node's reference document. Section order is fixed:
// Parameters, Services, Subscribers, Publishers, each sorted by name.
func (n *NodeInterface) Render() *docmodel.Document {
	doc := docmodel.New()
	doc.Heading("The " + n.name + " node").Blank()

	doc.Subheading("Parameters:")
	for _, param := range sets.SortedStrings(n.params) {
		doc.Item(n.relativeName(param) + " [TODO: type] -- " + todoDesc)
	}

	n.renderTyped(doc, "Services:", n.services)
	n.renderTyped(doc, "Subscribers:", n.subs)
	n.renderTyped(doc, "Publishers:", n.pubs)

	return doc
}

func (n *NodeInterface) renderTyped(doc *docmodel.Document, heading string, entries map[string]string) {
	doc.Blank().Subheading(heading)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		doc.Item(n.relativeName(name) + " [" + entries[name] + "] -- " + todoDesc)
	}
}
