package markup

import (
	"strings"

	"github.com/youpiyoful/djLint/doc"
)

// Format lays the tree out with indent spaces per level and lines of at
// most maxWidth columns where the content allows it. The result ends with
// exactly one newline.
func (t *Tree) Format(indent, maxWidth int) string {
	w := doc.NewWriter(strings.Repeat(" ", indent), maxWidth)
	return strings.TrimRight(w.Write(t.Doc(indent)), whitespace) + "\n"
}

// Doc returns the layout of the tree as a document. indent is the width of
// one indentation level, used to align the content of inline elements.
func (t *Tree) Doc(indent int) doc.Doc {
	f := &formatter{space: t.ctx.templateSpace(), indent: indent}
	var b doc.Builder
	f.children(&b, t.Root())
	return b.Doc()
}

type formatter struct {
	// space pads the body of template constructs.
	space  string
	indent int
}

type separator int

const (
	sepNone separator = iota
	sepSoft
	sepLine
)

// children appends the children of n and the separators between them.
func (f *formatter) children(b *doc.Builder, n *Node) {
	var prev *Node
	for _, c := range n.Children() {
		if prev == nil {
			b.Append(f.node(c))
			prev = c
			continue
		}
		switch between(prev, c) {
		case sepSoft:
			b.Softline().Append(f.node(c))
		case sepLine:
			b.Group(func(b *doc.Builder) {
				b.Line().Append(f.node(c))
			})
		default:
			b.Append(f.node(c))
		}
		prev = c
	}
}

// between decides what goes between two siblings. The checks run in order.
func between(prev, next *Node) separator {
	parent := prev.Parent()
	switch {
	case parent.isPreformatted():
		return sepNone
	case prev.Type == TemplateOpenNode && next.Type == TemplateCloseNode &&
		(prev.IsRawBlock() || !prev.HasChildren() && !prev.hasTrailingSpace()):
		return sepNone
	case next.NeedsToBorrowPrevClosingTagEndMarker():
		return sepNone
	case parent.ShouldForceBreakChildren():
		return sepSoft
	case (isComment(prev) || isComment(next)) && prev.Props.Has(PropTrailingBreak):
		return sepSoft
	case prev.isTextLike() && next.isTextLike():
		if !prev.IsTrailingSpaceSensitive() {
			return sepSoft
		}
		if prev.hasTrailingSpace() {
			return sepLine
		}
		return sepNone
	case !next.IsLeadingSpaceSensitive() || !prev.IsTrailingSpaceSensitive():
		return sepSoft
	case prev.hasTrailingSpace():
		return sepLine
	}
	return sepNone
}

func isComment(n *Node) bool {
	return n.Type == CommentNode || n.Type == TemplateCommentNode
}

// lineBeforeChildren appends what goes between the opening tag of n and
// its first child.
func lineBeforeChildren(b *doc.Builder, n *Node) {
	first := n.FirstChild()
	switch {
	case first == nil, n.ShouldHugContent():
	case first.hasLeadingSpace() && first.IsLeadingSpaceSensitive():
		b.Line()
	case first.IsLeadingSpaceSensitive():
		// a break would add a space the source does not have
	case first.Type == DataNode && n.IsWhitespaceSensitive() && n.IsIndentationSensitive():
	default:
		b.Softline()
	}
}

// lineAfterChildren appends what goes between the last child of n and its
// closing tag.
func lineAfterChildren(b *doc.Builder, n *Node) {
	last := n.LastChild()
	if last == nil {
		if n.hasDanglingSpace() && n.IsDanglingSpaceSensitive() {
			b.Line()
		}
		return
	}
	if next := n.NextSibling(); next != nil && next.NeedsToBorrowPrevClosingTagEndMarker() {
		if last.hasTrailingSpace() && last.IsTrailingSpaceSensitive() {
			b.Text(" ")
		}
		return
	}
	switch {
	case n.ShouldHugContent():
	case last.hasTrailingSpace() && last.IsTrailingSpaceSensitive():
		b.Line()
	case last.IsTrailingSpaceSensitive():
	case (last.Type == CommentNode || last.Type == DataNode) && n.whiteSpace() == "pre":
	default:
		b.Softline()
	}
}

func (f *formatter) node(n *Node) doc.Doc {
	var b doc.Builder
	if n.NeedsToBorrowPrevClosingTagEndMarker() {
		marker := n.PrevSibling().closingTagEndMarker()
		b.Group(func(b *doc.Builder) {
			b.Softline().Text(marker)
		})
	}
	switch n.Type {
	case DataNode:
		if n.isPreformatted() {
			b.Text(n.Data)
		} else {
			b.Fill(n.Words()...)
		}
	case RawNode:
		b.Text(n.Data)
	case CommentNode:
		b.Text("<!--" + n.Data + "-->")
	case DeclarationNode:
		b.Text(declaration(n))
	case TemplateStatementNode, TemplateCommentNode, TemplateCloseNode:
		b.Text(f.template(n))
	case TemplateOpenNode:
		f.templateBlock(&b, n)
	case ElementNode:
		f.element(&b, n)
	case VoidElementNode:
		b.Append(f.openTag(n))
	case EndTagNode:
		b.Text("</" + tagName(n) + f.endMarker(n, ">"))
	}
	return b.Doc()
}

func (f *formatter) element(b *doc.Builder, n *Node) {
	open := f.openTag(n)
	var close string
	if n.Closed {
		close = "</" + tagName(n) + f.endMarker(n, ">")
	}
	switch {
	case !n.HasChildren():
		b.Group(func(b *doc.Builder) {
			b.Append(open)
			if close != "" {
				lineAfterChildren(b, n)
			}
			b.Text(close)
		})
	case n.isPreformatted():
		b.Append(open)
		if n.IsScriptLike() {
			scriptContent(b, n)
		} else {
			for _, c := range n.Children() {
				b.Append(f.node(c))
			}
		}
		b.Text(close)
	case n.ShouldForceBreak() || hasBlockLikeChild(n):
		b.Group(func(b *doc.Builder) {
			b.Append(open)
			b.Indent(func(b *doc.Builder) {
				lineBeforeChildren(b, n)
				f.children(b, n)
			})
			if close != "" {
				lineAfterChildren(b, n)
			}
			b.Text(close)
		})
	default:
		b.Group(func(b *doc.Builder) {
			b.Append(open)
			b.Align(f.indent, func(b *doc.Builder) {
				lineBeforeChildren(b, n)
				f.children(b, n)
			})
			if close != "" {
				lineAfterChildren(b, n)
			}
			b.Text(close)
		})
	}
}

func hasBlockLikeChild(n *Node) bool {
	for _, c := range n.Children() {
		if c.IsBlockLike() {
			return true
		}
	}
	return false
}

// scriptContent keeps the content of script and style elements as is, but
// puts the closing tag at the indentation of the opening one when it sits
// on a line of its own.
func scriptContent(b *doc.Builder, n *Node) {
	var sb strings.Builder
	for _, c := range n.Children() {
		sb.WriteString(c.Data)
	}
	content := sb.String()
	if i := strings.LastIndexByte(content, '\n'); i >= 0 && strings.Trim(content[i+1:], " \t\r") == "" {
		b.Text(content[:i]).Hardline()
		return
	}
	b.Text(content)
}

// openTag prints the opening tag of an element with its attributes aligned
// after the tag name when they do not fit on one line. The alignment follows
// the column the tag starts at, which is not the indentation when the tag
// follows other content on its line.
func (f *formatter) openTag(n *Node) doc.Doc {
	name := "<" + tagName(n)
	end := ">"
	if n.Props.Has(PropSelfClosing) {
		end = " />"
	}
	if n.Type == VoidElementNode {
		end = f.endMarker(n, end)
	}
	var b doc.Builder
	b.Group(func(b *doc.Builder) {
		b.Text(name)
		if n.Attr != "" {
			attrs := n.Attributes().Doc(f.space)
			b.Hang(1, func(b *doc.Builder) {
				b.Text(" ").Append(attrs)
			})
		}
		b.Text(end)
	})
	return b.Doc()
}

// endMarker drops the closing marker of n from end when the next sibling
// prints it.
func (f *formatter) endMarker(n *Node, end string) string {
	if next := n.NextSibling(); next != nil && next.NeedsToBorrowPrevClosingTagEndMarker() {
		return strings.TrimSuffix(end, n.closingTagEndMarker())
	}
	return end
}

func tagName(n *Node) string {
	if n.Namespace != "" {
		return n.Namespace + ":" + n.Name
	}
	return n.Name
}

func declaration(n *Node) string {
	name, attr := n.Name, n.Attr
	if strings.EqualFold(name, "doctype") {
		name, attr = "DOCTYPE", strings.Join(strings.Fields(attr), " ")
	}
	if attr == "" {
		return "<!" + name + ">"
	}
	return "<!" + name + " " + attr + ">"
}

// Construct returns n printed on its own line: the construct of template
// nodes, and the tag of end tags and declarations. It is empty for other
// nodes.
func (n *Node) Construct() string {
	switch n.Type {
	case TemplateOpenNode, TemplateCloseNode, TemplateStatementNode, TemplateCommentNode:
		f := formatter{space: n.tree.ctx.templateSpace()}
		return f.template(n)
	case EndTagNode:
		return "</" + tagName(n) + ">"
	case DeclarationNode:
		return declaration(n)
	}
	return ""
}

// templateBlock prints the opening construct of a template block followed
// by its content, one level deeper. The end construct is a sibling. Raw
// blocks and blocks inside pre-formatted elements keep their content as is.
func (f *formatter) templateBlock(b *doc.Builder, n *Node) {
	b.Text(f.template(n))
	if !n.HasChildren() {
		return
	}
	if n.isPreformatted() {
		for _, c := range n.Children() {
			b.Append(f.node(c))
		}
		return
	}
	b.Indent(func(b *doc.Builder) {
		lineBeforeChildren(b, n)
		f.children(b, n)
	})
}

func (f *formatter) template(n *Node) string {
	if n.Type == TemplateCommentNode {
		return templateTag(n.Type, n.Dialect, n.Props, strings.TrimSpace(n.Data), " ")
	}
	return templateTag(n.Type, n.Dialect, n.Props, n.Data, f.space)
}

// templateTag prints a template construct of dialect d around body.
func templateTag(t NodeType, d Dialect, props Props, body, space string) string {
	dl := d.delims()
	sigil := dl.sigil
	if t == TemplateCloseNode {
		sigil = dl.endSigil
	}
	// block helpers like {{#each}} are never padded
	if sigil != "" && t != TemplateCommentNode {
		space = ""
	}
	var sb strings.Builder
	sb.WriteString(dl.open)
	sb.WriteString(props.leftMarker())
	sb.WriteString(sigil)
	if props.Has(PropPartial) {
		sb.WriteByte('>')
	}
	if props.Has(PropSafeLeft) {
		sb.WriteString("--")
	}
	if body != "" {
		sb.WriteString(space + body + space)
	}
	if props.Has(PropSafeRight) {
		sb.WriteString("--")
	}
	sb.WriteString(props.rightMarker())
	sb.WriteString(dl.close)
	return sb.String()
}
