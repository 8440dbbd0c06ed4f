package markup

import (
	"strings"

	a "golang.org/x/net/html/atom"

	"github.com/youpiyoful/djLint/doc"
)

// An AttrNodeType is the type of an AttrNode.
type AttrNodeType uint8

const (
	AttrRootNode AttrNodeType = iota
	// AttrNameNode is an attribute name. Its value, if any, is its only
	// child.
	AttrNameNode
	// AttrValueNode is a quoted value or a string literal inside a template
	// construct. Its children are the quoted content.
	AttrValueNode
	AttrTextNode
	// AttrTemplateNode is a template construct. Blocks and branches hold
	// the attributes up to their end; statements hold the parsed body.
	AttrTemplateNode
	AttrTemplateCloseNode
)

var attrNodeTypeNames = [...]string{
	AttrRootNode:          "root",
	AttrNameNode:          "name",
	AttrValueNode:         "value",
	AttrTextNode:          "text",
	AttrTemplateNode:      "template",
	AttrTemplateCloseNode: "template-close",
}

func (t AttrNodeType) String() string {
	if int(t) < len(attrNodeTypeNames) {
		return attrNodeTypeNames[t]
	}
	return "invalid"
}

// An AttrNode is one part of the attribute list of a tag.
type AttrNode struct {
	tree *AttrTree
	id   int

	Type AttrNodeType
	// Text is the name of a name node and the content of a text node.
	Text string
	// Quote is the source quote of a value node.
	Quote byte
	// HasValue is set on a name followed by '='.
	HasValue bool
	// Template is the construct of a template node.
	Template Token
	// Props records whitespace after the node and, for template nodes, the
	// markers of the construct.
	Props Props

	// block is set on template nodes that hold the attributes up to their
	// end construct.
	block    bool
	parent   int
	children []int
}

// Parent returns the parent of n, or nil for the root.
func (n *AttrNode) Parent() *AttrNode {
	if n.parent < 0 {
		return nil
	}
	return n.tree.nodes[n.parent]
}

// Children returns the children of n in order.
func (n *AttrNode) Children() []*AttrNode {
	cs := make([]*AttrNode, len(n.children))
	for i, id := range n.children {
		cs[i] = n.tree.nodes[id]
	}
	return cs
}

func (n *AttrNode) lastChild() *AttrNode {
	if len(n.children) == 0 {
		return nil
	}
	return n.tree.nodes[n.children[len(n.children)-1]]
}

// Depth returns the number of values n is nested in.
func (n *AttrNode) Depth() int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type == AttrValueNode {
			d++
		}
	}
	return d
}

// InValue reports whether n is part of a quoted value.
func (n *AttrNode) InValue() bool {
	return n.Depth() > 0
}

// IsNestedValue reports whether n is a string literal of a template
// construct that itself sits inside a quoted value.
func (n *AttrNode) IsNestedValue() bool {
	return n.Type == AttrValueNode && n.Depth() > 0
}

// BreakAfter reports whether a line break may follow n in the attribute
// list. Whitespace inside values is never touched.
func (n *AttrNode) BreakAfter() bool {
	return n.Props.Has(PropTrailingSpace) && !n.InValue()
}

// An AttrTree is the parsed attribute list of one tag.
type AttrTree struct {
	nodes []*AttrNode
	// lower is set when known attribute names are lower-cased.
	lower bool
}

// Root returns the root node.
func (t *AttrTree) Root() *AttrNode { return t.nodes[0] }

func (t *AttrTree) add(typ AttrNodeType, parent *AttrNode) *AttrNode {
	n := &AttrNode{tree: t, id: len(t.nodes), Type: typ, parent: -1}
	t.nodes = append(t.nodes, n)
	if parent != nil {
		n.parent = parent.id
		parent.children = append(parent.children, n.id)
	}
	return n
}

// Attributes parses the raw attribute string of an element.
func (n *Node) Attributes() *AttrTree {
	var custom []string
	if n.tree != nil {
		custom = n.tree.opts.CustomBlocks
	}
	lower := n.Namespace == "" && n.DataAtom != 0 && n.DataAtom != a.Svg && n.DataAtom != a.Math
	return ParseAttrs(n.Attr, lower, custom)
}

// ParseAttrs parses raw into an AttrTree. When lower is set, names of
// known HTML attributes are lower-cased. custom lists additional percent
// constructs that open a block.
func ParseAttrs(raw string, lower bool, custom []string) *AttrTree {
	t := &AttrTree{lower: lower}
	b := &attrBuilder{
		t:  t,
		ts: newTemplateScanner(raw, custom),
	}
	b.oe = []*AttrNode{t.add(AttrRootNode, nil)}
	s := &attrScanner{src: raw, ts: b.ts}
	for tok := s.next(); tok.typ != attrEOF; tok = s.next() {
		b.consume(tok)
	}
	return t
}

type attrBuilder struct {
	t  *AttrTree
	ts *templateScanner
	// oe is the stack of open containers: the root, template blocks and
	// quoted values.
	oe []*AttrNode
	// recent is the most recently completed node at the current level.
	recent *AttrNode
	// name is an attribute name waiting for its value.
	name *AttrNode
}

func (b *attrBuilder) top() *AttrNode { return b.oe[len(b.oe)-1] }

func (b *attrBuilder) consume(tok attrToken) {
	top := b.top()
	inValue := b.valueIndex() >= 0
	switch tok.typ {
	case attrSpace:
		if inValue {
			b.addText(top, tok.text)
			return
		}
		if r := b.recent; r != nil {
			r.Props |= PropTrailingSpace
			if strings.ContainsRune(tok.text, '\n') {
				r.Props |= PropTrailingBreak
			}
		}
	case attrText, attrEquals:
		switch {
		case inValue:
			b.addText(top, tok.text)
		case b.name != nil:
			b.addText(b.name, tok.text)
			b.recent, b.name = b.name, nil
		case tok.typ == attrEquals && b.recent != nil && b.recent.Type == AttrNameNode &&
			!b.recent.HasValue && b.recent.Parent() == top:
			b.recent.HasValue = true
			b.recent.Props &^= PropTrailingSpace | PropTrailingBreak
			b.name = b.recent
		default:
			n := b.t.add(AttrNameNode, top)
			n.Text = tok.text
			if b.t.lower && tok.typ == attrText {
				if l := strings.ToLower(tok.text); a.Lookup([]byte(l)) != 0 {
					n.Text = l
				}
			}
			b.recent = n
		}
	case attrQuote:
		q := tok.text[0]
		if i := b.valueIndex(); i >= 0 && b.oe[i].Quote == q {
			v := b.oe[i]
			b.oe = b.oe[:i]
			b.recent = v
			if p := v.Parent(); p.Type == AttrNameNode {
				b.recent = p
			}
			return
		}
		parent := top
		if b.name != nil {
			parent, b.name = b.name, nil
		}
		v := b.t.add(AttrValueNode, parent)
		v.Quote = q
		b.oe = append(b.oe, v)
	case attrTemplate:
		b.addTemplate(tok)
	}
}

// valueIndex returns the index in b.oe of the innermost open value, or -1.
func (b *attrBuilder) valueIndex() int {
	for i := len(b.oe) - 1; i > 0; i-- {
		if b.oe[i].Type == AttrValueNode {
			return i
		}
	}
	return -1
}

// addText appends text to the last child of parent if it is a text node.
func (b *attrBuilder) addText(parent *AttrNode, text string) {
	if last := parent.lastChild(); last != nil && last.Type == AttrTextNode {
		last.Text += text
		return
	}
	n := b.t.add(AttrTextNode, parent)
	n.Text = text
}

func (b *attrBuilder) addTemplate(tok attrToken) {
	parent := b.top()
	if owner := b.name; owner != nil {
		// an unquoted value: never opens a block
		n := b.templateNode(tok.tmpl, owner)
		if tok.tmpl.Type == TemplateStatementToken {
			b.addExpr(n, tok.tmpl.Data)
		}
		b.recent, b.name = owner, nil
		return
	}
	switch tok.tmpl.Type {
	case TemplateStartToken:
		n := b.templateNode(tok.tmpl, parent)
		n.block = true
		b.oe = append(b.oe, n)
		b.recent = n
		return
	case TemplateEndToken:
		if i := b.indexOfBlock(tok.tmpl, false); i > 0 {
			b.oe = b.oe[:i]
			parent = b.top()
		}
		b.recent = b.templateNode(tok.tmpl, parent)
		b.recent.Type = AttrTemplateCloseNode
		return
	case TemplateStatementToken:
		if branchNames[tok.tmpl.Name] {
			if i := b.indexOfBlock(tok.tmpl, true); i > 0 {
				b.oe = b.oe[:i]
				n := b.templateNode(tok.tmpl, b.top())
				n.block = true
				b.oe = append(b.oe, n)
				b.recent = n
				return
			}
		}
		n := b.templateNode(tok.tmpl, parent)
		b.addExpr(n, tok.tmpl.Data)
		b.recent = n
		return
	}
	b.recent = b.templateNode(tok.tmpl, parent)
}

func (b *attrBuilder) templateNode(tok Token, parent *AttrNode) *AttrNode {
	n := b.t.add(AttrTemplateNode, parent)
	n.Template = tok
	n.Props = tok.Props
	return n
}

// indexOfBlock returns the index in b.oe of the nearest open block tok
// closes or continues. It never looks past a quoted value and returns -1
// when there is no such block.
func (b *attrBuilder) indexOfBlock(tok Token, branch bool) int {
	family := dialectFamily(tok.Dialect)
	for i := len(b.oe) - 1; i > 0; i-- {
		n := b.oe[i]
		if n.Type == AttrValueNode {
			return -1
		}
		if dialectFamily(n.Template.Dialect) != family {
			continue
		}
		if branch || blockName(n) == tok.Name {
			return i
		}
	}
	return -1
}

// blockName follows branches back to the block they continue.
func blockName(n *AttrNode) string {
	if !branchNames[n.Template.Name] {
		return n.Template.Name
	}
	p := n.Parent()
	for i := len(p.children) - 1; i >= 0; i-- {
		c := n.tree.nodes[p.children[i]]
		if c.block && c.id < n.id && !branchNames[c.Template.Name] {
			return c.Template.Name
		}
	}
	return n.Template.Name
}

// addExpr parses the body of a template statement. String literals become
// value nodes so that their quotes can be chosen like those of attribute
// values.
func (b *attrBuilder) addExpr(parent *AttrNode, body string) {
	s := &attrScanner{src: body, expr: true}
	cur := parent
	for tok := s.next(); tok.typ != attrEOF; tok = s.next() {
		if tok.typ != attrQuote {
			b.addText(cur, tok.text)
			continue
		}
		if cur.Type == AttrValueNode && cur.Quote == tok.text[0] {
			cur = cur.Parent()
			continue
		}
		v := b.t.add(AttrValueNode, cur)
		v.Quote = tok.text[0]
		cur = v
	}
}

// An AttrItem is one entry of the attribute list as laid out.
type AttrItem struct {
	Text string
	// Break is set when the source had whitespace after the item.
	Break bool
}

// Items returns the attribute list flattened into items: attributes,
// template constructs and the content of template blocks in between.
func (t *AttrTree) Items(space string) []AttrItem {
	var items []AttrItem
	var walk func(*AttrNode)
	walk = func(p *AttrNode) {
		for _, c := range p.Children() {
			items = append(items, AttrItem{Text: t.text(c, 0, space), Break: c.BreakAfter()})
			if c.block {
				walk(c)
			}
		}
	}
	walk(t.Root())
	return items
}

// An Attribute is a name with its value as written, quotes removed.
type Attribute struct {
	Name     string
	Value    string
	HasValue bool
}

// Attrs returns the attributes in source order, including those inside
// template blocks.
func (t *AttrTree) Attrs() []Attribute {
	var attrs []Attribute
	var walk func(*AttrNode)
	walk = func(p *AttrNode) {
		for _, c := range p.Children() {
			switch {
			case c.Type == AttrNameNode:
				a := Attribute{Name: c.Text, HasValue: c.HasValue}
				for _, v := range c.Children() {
					if v.Type != AttrValueNode {
						a.Value += t.text(v, 0, " ")
						continue
					}
					for _, vc := range v.Children() {
						a.Value += t.text(vc, 1, " ")
					}
				}
				attrs = append(attrs, a)
			case c.block:
				walk(c)
			}
		}
	}
	walk(t.Root())
	return attrs
}

// Doc lays the attribute list out. Items the source separated by
// whitespace are separated by a line; others stay glued.
func (t *AttrTree) Doc(space string) doc.Doc {
	items := t.Items(space)
	var b doc.Builder
	for i, it := range items {
		if i > 0 && items[i-1].Break {
			b.Line()
		}
		b.Text(it.Text)
	}
	return b.Doc()
}

// text prints n. depth is the number of values n sits in.
func (t *AttrTree) text(n *AttrNode, depth int, space string) string {
	var sb strings.Builder
	switch n.Type {
	case AttrNameNode:
		sb.WriteString(n.Text)
		if n.HasValue {
			sb.WriteByte('=')
			for _, c := range n.Children() {
				sb.WriteString(t.text(c, 0, space))
			}
		}
	case AttrTextNode:
		sb.WriteString(n.Text)
	case AttrValueNode:
		var inner strings.Builder
		for _, c := range n.Children() {
			inner.WriteString(t.text(c, depth+1, space))
		}
		q := quoteFor(depth, n.Quote, inner.String())
		sb.WriteByte(q)
		sb.WriteString(inner.String())
		sb.WriteByte(q)
	case AttrTemplateNode, AttrTemplateCloseNode:
		tok := n.Template
		body := tok.Data
		if len(n.children) > 0 && !n.block {
			var expr strings.Builder
			for _, c := range n.Children() {
				expr.WriteString(t.text(c, depth, space))
			}
			body = strings.TrimSpace(expr.String())
		}
		typ, sp := TemplateStatementNode, space
		switch {
		case n.Type == AttrTemplateCloseNode:
			typ = TemplateCloseNode
		case tok.Type == TemplateCommentToken:
			typ, sp = TemplateCommentNode, " "
			body = strings.TrimSpace(body)
		}
		sb.WriteString(templateTag(typ, tok.Dialect, tok.Props, body, sp))
		if n.block && depth > 0 {
			for _, c := range n.Children() {
				sb.WriteString(t.text(c, depth, space))
			}
		}
	}
	return sb.String()
}

// quoteFor picks the quote of a value at depth: double quotes outside,
// single quotes one level in, alternating further down. The source quote
// is kept when the content holds the preferred one.
func quoteFor(depth int, src byte, inner string) byte {
	want := byte('"')
	if depth%2 == 1 {
		want = '\''
	}
	if strings.IndexByte(inner, want) >= 0 {
		return src
	}
	return want
}
