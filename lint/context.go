package lint

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"github.com/youpiyoful/djLint/markup"
)

// contextBuilder is a type to organize helper functions for building violation context trees.
type contextBuilder struct{}

func (b contextBuilder) addPrevSiblings(doc *etree.Element, n *markup.Node) {
	var prev []*markup.Node
	for s := n.PrevSibling(); s != nil; s = s.PrevSibling() {
		if s.IsWhitespace() {
			continue
		}
		if len(prev) == 2 {
			doc.AddChild(etree.NewText("..."))
			break
		}
		prev = append(prev, s)
	}
	for i := len(prev) - 1; i >= 0; i-- {
		b.addNode(doc, prev[i])
	}
}

func (b contextBuilder) addNextSiblings(doc *etree.Element, n *markup.Node) {
	c := 0
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if s.IsWhitespace() {
			continue
		}
		if c == 2 {
			doc.AddChild(etree.NewText("..."))
			break
		}
		b.addNode(doc, s)
		c++
	}
}

// addNode adds a shallow copy of n to doc: elements keep their attributes
// and text, deeper content is elided.
func (b contextBuilder) addNode(doc *etree.Element, n *markup.Node) {
	switch n.Type {
	case markup.ElementNode, markup.VoidElementNode:
		el := b.element(n)
		switch {
		case !n.HasChildren():
		case n.FirstChild() == n.LastChild() && n.FirstChild().Type == markup.DataNode:
			el.SetText(n.FirstChild().Data)
		default:
			el.AddChild(etree.NewText("..."))
		}
		doc.AddChild(el)
	case markup.DataNode, markup.RawNode:
		doc.AddChild(etree.NewText(n.Data))
	case markup.CommentNode:
		doc.AddChild(etree.NewComment(n.Data))
	default:
		doc.AddChild(etree.NewText(n.Construct()))
	}
}

func (b contextBuilder) element(n *markup.Node) *etree.Element {
	el := etree.NewElement(n.Name)
	el.Space = n.Namespace
	for _, a := range n.Attributes().Attrs() {
		el.CreateAttr(a.Name, a.Value)
	}
	return el
}

func (b contextBuilder) wrapParent(doc *etree.Element, n *markup.Node) *etree.Element {
	parent := n.Parent()
	if parent == nil || parent.Type != markup.ElementNode {
		return doc // do not wrap template blocks and the root
	}

	p := b.element(parent)
	doc.Space = p.Space
	doc.Tag = p.Tag
	doc.Attr = p.Attr

	wrapper := &etree.Element{}
	wrapper.AddChild(doc)

	return wrapper
}

// buildContext creates a tree around the node n to show where a violation is.
func buildContext(n *markup.Node) *etree.Element {
	doc := &etree.Element{}
	b := contextBuilder{}
	b.addPrevSiblings(doc, n)
	b.addNode(doc, n)
	b.addNextSiblings(doc, n)
	return b.wrapParent(doc, n)
}

// renderContext prints doc as HTML.
func renderContext(doc *etree.Element) string {
	dst := &html.Node{Type: html.DocumentNode}

	// traverse the etree.Element and build the html.Node
	var render func(*html.Node, *etree.Element)
	render = func(dst *html.Node, src *etree.Element) {
		for _, c := range src.Child {
			switch t := c.(type) {
			case *etree.Element:
				n := &html.Node{Type: html.ElementNode, Data: t.FullTag()}
				for _, a := range t.Attr {
					n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
				}
				dst.AppendChild(n)
				render(n, t)
			case *etree.CharData:
				dst.AppendChild(&html.Node{Type: html.TextNode, Data: t.Data})
			case *etree.Comment:
				dst.AppendChild(&html.Node{Type: html.CommentNode, Data: t.Data})
			}
		}
	}

	render(dst, doc)

	var buf strings.Builder
	_ = html.Render(&buf, dst)

	return buf.String()
}
