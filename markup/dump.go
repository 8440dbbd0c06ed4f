package markup

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// Dump writes the tree as indented lines, one per node, for debugging:
//
//	| <div>
//	|   class="a"
//	|   "text"
func (t *Tree) Dump(w io.Writer) error {
	for _, c := range t.Root().Children() {
		if err := dumpLevel(w, c, 0); err != nil {
			return err
		}
	}
	return nil
}

// String returns the dump of the tree.
func (t *Tree) String() string {
	var b bytes.Buffer
	_ = t.Dump(&b)
	return b.String()
}

func dumpIndent(w io.Writer, level int) {
	_, _ = io.WriteString(w, "| ")
	for i := 0; i < level; i++ {
		_, _ = io.WriteString(w, "  ")
	}
}

func dumpLevel(w io.Writer, n *Node, level int) error {
	dumpIndent(w, level)
	level++
	switch n.Type {
	case ElementNode, VoidElementNode:
		if n.Namespace != "" {
			_, _ = fmt.Fprintf(w, "<%s %s>", n.Namespace, n.Name)
		} else {
			_, _ = fmt.Fprintf(w, "<%s>", n.Name)
		}
		if n.Attr != "" {
			for _, it := range n.Attributes().Items(" ") {
				_, _ = io.WriteString(w, "\n")
				dumpIndent(w, level)
				_, _ = io.WriteString(w, it.Text)
			}
		}
	case DataNode:
		_, _ = fmt.Fprintf(w, `"%s"`, n.Data)
	case RawNode:
		_, _ = fmt.Fprintf(w, "raw %s", strconv.Quote(n.Data))
	case CommentNode:
		_, _ = fmt.Fprintf(w, "<!--%s-->", n.Data)
	case EndTagNode, DeclarationNode, TemplateOpenNode, TemplateCloseNode, TemplateStatementNode, TemplateCommentNode:
		_, _ = io.WriteString(w, n.Construct())
	default:
		return fmt.Errorf("markup: unexpected %s node", n.Type)
	}
	_, _ = io.WriteString(w, "\n")
	for _, c := range n.Children() {
		if err := dumpLevel(w, c, level); err != nil {
			return err
		}
	}
	return nil
}

// XML returns the tree as an XML document. Every node becomes an element
// named after its type, carrying its name, dialect, position and
// whitespace properties as attributes.
func (t *Tree) XML() *etree.Document {
	d := etree.NewDocument()
	d.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := d.CreateElement("tree")
	root.CreateAttr("profile", t.ctx.Profile())
	for _, c := range t.Root().Children() {
		xmlNode(root, c)
	}
	d.Indent(2)
	return d
}

func xmlNode(parent *etree.Element, n *Node) {
	e := parent.CreateElement(n.Type.String())
	if n.Name != "" {
		e.CreateAttr("name", tagName(n))
	}
	if n.Dialect != NoDialect {
		e.CreateAttr("dialect", n.Dialect.String())
	}
	if n.Attr != "" {
		e.CreateAttr("attr", n.Attr)
	}
	if !n.Span.IsZero() {
		e.CreateAttr("pos", n.Span.String())
	}
	if n.Props != 0 {
		e.CreateAttr("props", n.Props.String())
	}
	switch n.Type {
	case DataNode, RawNode, CommentNode, TemplateStatementNode, TemplateCommentNode:
		e.SetText(n.Data)
	}
	for _, c := range n.Children() {
		xmlNode(e, c)
	}
}
