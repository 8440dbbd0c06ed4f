package lint

import (
	"github.com/youpiyoful/djLint/markup"
)

// NodeEnv is what a rule condition sees of a node.
type NodeEnv struct {
	// Type is the node type as printed by markup.NodeType.String, for
	// example "element", "void" or "template-statement".
	Type string
	// Dialect names the template delimiters of template nodes.
	Dialect   string
	Name      string
	Namespace string
	// RawName is the name as spelled in the source.
	RawName string
	// Attr is the raw attribute string of a tag or the arguments of a
	// template construct.
	Attr string
	// Attrs maps attribute names to their unquoted values.
	Attrs map[string]string
	Data  string
	// Source is the source text of the node: the start tag of elements.
	Source  string
	Parent  string
	Display string
	Closed  bool
	// HasChildren is false for elements with only whitespace inside.
	HasChildren bool
	Depth       int
	Profile     string
}

func newNodeEnv(n *markup.Node, src string) NodeEnv {
	env := NodeEnv{
		Type:        n.Type.String(),
		Name:        n.Name,
		Namespace:   n.Namespace,
		RawName:     n.Raw,
		Attr:        n.Attr,
		Attrs:       map[string]string{},
		Data:        n.Data,
		Display:     n.Display(),
		Closed:      n.Closed,
		HasChildren: n.HasChildren(),
		Profile:     n.Tree().Context().Profile(),
	}
	if n.Dialect != markup.NoDialect {
		env.Dialect = n.Dialect.String()
	}
	if end := n.Span.End(); n.Span.Offset <= end && end <= len(src) {
		env.Source = src[n.Span.Offset:end]
	}
	if p := n.Parent(); p != nil {
		env.Parent = p.Name
	}
	for p := n.Parent(); p != nil && p.Type != markup.RootNode; p = p.Parent() {
		env.Depth++
	}
	if n.Type == markup.ElementNode || n.Type == markup.VoidElementNode {
		for _, a := range n.Attributes().Attrs() {
			// the first occurrence wins
			if _, ok := env.Attrs[a.Name]; !ok {
				env.Attrs[a.Name] = a.Value
			}
		}
	}
	return env
}
