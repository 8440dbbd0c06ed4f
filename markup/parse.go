// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Removed context-aware HTML parsing. The goal is to produce the Node tree as close to the
//    original source as possible, but honor some of the HTML5 parsing rules (e.g. implied end
//    tags of list items, table parts and paragraphs).
//  - Template blocks, branches and statements become nodes of the tree.
//  - Whitespace between nodes is kept as node properties instead of text nodes.

package markup

import (
	"strings"

	a "golang.org/x/net/html/atom"
)

// Options configure tokenizing and tree building.
type Options struct {
	// Profile pins the template profile. Empty or "all" detects it.
	Profile string
	// CustomBlocks are percent constructs that open a block in addition to
	// the built-in ones and those with a matching end construct.
	CustomBlocks []string
	// FormatOff and FormatOn are the comment markers around regions that
	// are kept verbatim. They default to "djlint:off" and "djlint:on".
	FormatOff, FormatOn string
}

func (o Options) withDefaults() Options {
	if o.FormatOff == "" {
		o.FormatOff = "djlint:off"
	}
	if o.FormatOn == "" {
		o.FormatOn = "djlint:on"
	}
	return o
}

// Parse builds the tree of src. It never fails: unbalanced tags are closed
// by the nearest matching open node and unknown syntax becomes data.
func Parse(src string, opts Options) *Tree {
	opts = opts.withDefaults()
	p := &parser{
		tokenizer: NewTokenizer(src, opts),
		tree:      newTree(NewTreeContext(opts.Profile), opts),
	}
	p.oe = nodeStack{p.tree.Root()}
	for p.tokenizer.Next() != EOFToken {
		p.tok = p.tokenizer.Token()
		p.parseCurrentToken()
	}
	p.finalize()
	return p.tree
}

// A parser builds a Tree from the tokens of a Tokenizer.
type parser struct {
	// tokenizer provides the tokens for the parser.
	tokenizer *Tokenizer
	// tok is the most recently read token.
	tok  Token
	tree *Tree
	// The stack of open nodes. The root is always at the bottom.
	oe nodeStack
	// recent is the most recently attached or closed node.
	recent *Node
	// space and lineBreak record whitespace seen since recent.
	space, lineBreak bool
}

func (p *parser) top() *Node {
	return p.oe.top()
}

func (p *parser) parseCurrentToken() {
	if p.tok.Dialect.Handlebars() {
		p.tree.ctx.Detect(ProfileHandlebars)
	}
	switch p.tok.Type {
	case DataToken:
		p.addText(p.tok.Data)
	case StartTagToken, SelfClosingTagToken:
		p.addElement()
	case EndTagToken:
		p.closeElement()
	case CommentToken:
		p.attach(p.newNode(CommentNode))
	case DeclarationToken:
		p.attach(p.newNode(DeclarationNode))
	case RawToken:
		p.attach(p.newNode(RawNode))
	case TemplateStartToken:
		n := p.newNode(TemplateOpenNode)
		n.Match = n.Name
		p.push(n)
	case TemplateEndToken:
		p.closeTemplate()
	case TemplateStatementToken:
		if branchNames[p.tok.Name] && p.addBranch() {
			return
		}
		p.attach(p.newNode(TemplateStatementNode))
	case TemplateCommentToken:
		p.attach(p.newNode(TemplateCommentNode))
	}
}

func (p *parser) newNode(t NodeType) *Node {
	return p.tree.add(Node{
		Type:    t,
		Dialect: p.tok.Dialect,
		Raw:     p.tok.Name,
		Name:    p.tok.Name,
		Attr:    p.tok.Attr,
		Data:    p.tok.Data,
		Props:   p.tok.Props,
		Span:    p.tok.Span,
	})
}

// attach adds n as the last child of the top node and links it after the
// most recent node.
func (p *parser) attach(n *Node) {
	p.top().appendChild(n)
	if p.space {
		n.Props |= PropLeadingSpace
		if p.lineBreak {
			n.Props |= PropLeadingBreak
		}
	}
	p.space, p.lineBreak = false, false
	if r := p.recent; r != nil {
		r.next = n.id
		n.prev = r.id
	}
	p.recent = n
}

// push attaches n and makes it the top of the stack of open nodes.
func (p *parser) push(n *Node) {
	p.attach(n)
	p.oe = append(p.oe, n)
}

// popTo pops the stack of open nodes down to, and including, p.oe[i].
func (p *parser) popTo(i int) {
	if top := p.top(); p.space && !top.HasChildren() {
		top.Props |= PropDanglingSpace
	}
	p.space, p.lineBreak = false, false
	p.recent = p.oe[i]
	p.oe = p.oe[:i]
}

func (p *parser) finalize() {
	if len(p.oe) > 1 {
		recent := p.recent
		p.popTo(1)
		p.recent = recent
	}
}

// addText splits text into whitespace and content. Inside whitespace
// sensitive nodes text is kept as is.
func (p *parser) addText(text string) {
	if p.top().isPreformatted() {
		p.addData(text)
		return
	}
	i := len(text) - len(strings.TrimLeft(text, whitespace))
	if i == len(text) {
		p.addSpace(text)
		return
	}
	j := len(strings.TrimRight(text, whitespace))
	if i > 0 {
		p.addSpace(text[:i])
	}
	p.addData(text[i:j])
	if j < len(text) {
		p.addSpace(text[j:])
	}
}

// addSpace marks the most recent completed node as followed by whitespace.
func (p *parser) addSpace(ws string) {
	p.space = true
	if strings.ContainsRune(ws, '\n') {
		p.lineBreak = true
	}
	if r := p.recent; r != nil && r != p.top() {
		r.Props |= PropTrailingSpace
		if p.lineBreak {
			r.Props |= PropTrailingBreak
		}
	}
}

// addData adds text to the preceding node if it is a data node, or else it
// attaches a new data node. Whitespace between the two pieces becomes a
// single space.
func (p *parser) addData(text string) {
	if r := p.recent; r != nil && r.Type == DataNode && r.parent == p.top().id {
		if p.space {
			r.Data += " "
		}
		r.Data += text
		r.Props &^= PropTrailingSpace | PropTrailingBreak
		r.Span.Length = p.tok.Span.End() - r.Span.Offset
		p.space, p.lineBreak = false, false
		return
	}
	n := p.newNode(DataNode)
	n.Name, n.Raw, n.Data = "", "", text
	p.attach(n)
}

// canonicalName splits off a namespace prefix and lower-cases known HTML
// tag names.
func canonicalName(raw string) (name, namespace string, atom a.Atom) {
	name = raw
	if i := strings.IndexByte(raw, ':'); i > 0 {
		namespace, name = raw[:i], raw[i+1:]
	}
	lower := strings.ToLower(name)
	if atom = a.Lookup([]byte(lower)); atom != 0 {
		return lower, namespace, atom
	}
	return name, namespace, 0
}

func isVoidElement(atom a.Atom) bool {
	switch atom {
	case a.Area, a.Base, a.Basefont, a.Bgsound, a.Br, a.Col, a.Embed, a.Frame, a.Hr,
		a.Image, a.Img, a.Input, a.Keygen, a.Link, a.Meta, a.Param, a.Source, a.Track, a.Wbr:
		return true
	}
	return false
}

// addElement adds an element for the current start tag.
func (p *parser) addElement() {
	n := p.newNode(ElementNode)
	n.Name, n.Namespace, n.DataAtom = canonicalName(p.tok.Name)
	if n.Namespace == "" {
		p.generateImpliedEndTags(n.DataAtom)
	}
	if p.tok.Type == SelfClosingTagToken || n.Namespace == "" && isVoidElement(n.DataAtom) {
		n.Type = VoidElementNode
		p.attach(n)
		return
	}
	p.push(n)
}

// closeElement pops the stack of open nodes down to the nearest element
// with the same name. An end tag without such an element is kept as a
// node of its own.
func (p *parser) closeElement() {
	name, namespace, atom := canonicalName(p.tok.Name)
	for i := len(p.oe) - 1; i > 0; i-- {
		n := p.oe[i]
		if n.Type == ElementNode && n.Name == name && n.Namespace == namespace {
			p.popTo(i)
			n.Closed = true
			return
		}
	}
	n := p.newNode(EndTagNode)
	n.Name, n.Namespace, n.DataAtom = name, namespace, atom
	p.attach(n)
}

func dialectFamily(d Dialect) Dialect {
	switch d {
	case PercentComment:
		return Percent
	case CurlyTwoHash:
		return CurlyTwo
	}
	return d
}

// closeTemplate closes the nearest open block of the current end construct.
// The end construct always becomes a node following the block.
func (p *parser) closeTemplate() {
	family := dialectFamily(p.tok.Dialect)
	for i := len(p.oe) - 1; i > 0; i-- {
		n := p.oe[i]
		if n.Type == TemplateOpenNode && n.Match == p.tok.Name && dialectFamily(n.Dialect) == family {
			p.popTo(i)
			n.Closed = true
			break
		}
	}
	p.attach(p.newNode(TemplateCloseNode))
}

// addBranch closes the current branch of the nearest open block and opens
// the next one at the same depth. It reports false when no block is open.
func (p *parser) addBranch() bool {
	family := dialectFamily(p.tok.Dialect)
	for i := len(p.oe) - 1; i > 0; i-- {
		n := p.oe[i]
		if n.Type == TemplateOpenNode && !n.IsRawBlock() && dialectFamily(n.Dialect) == family {
			p.popTo(i)
			b := p.newNode(TemplateOpenNode)
			b.Match = n.Match
			p.push(b)
			return true
		}
	}
	return false
}

type scope int

const (
	defaultScope scope = iota
	listItemScope
	buttonScope
	tableScope
	tableRowScope
	definitionScope
)

// Stop tags for use in popUntil. These come from section 12.2.4.2.
var defaultScopeStopTags = []a.Atom{a.Applet, a.Caption, a.Html, a.Table, a.Td, a.Th, a.Marquee, a.Object, a.Template}

// popUntil pops the stack of open nodes at the highest element whose tag
// is in matchTags, provided there is no higher element in the scope's stop
// tags and no template block in between. It returns whether or not there
// was such an element. If there was not, popUntil leaves the stack
// unchanged. The popped elements stay unclosed.
func (p *parser) popUntil(s scope, matchTags ...a.Atom) bool {
	if i := p.indexOfElementInScope(s, matchTags...); i != -1 {
		p.popTo(i)
		return true
	}
	return false
}

// indexOfElementInScope returns the index in p.oe of the highest element whose
// tag is in matchTags that is in scope. If no matching element is in scope, it
// returns -1.
func (p *parser) indexOfElementInScope(s scope, matchTags ...a.Atom) int {
	for i := len(p.oe) - 1; i > 0; i-- {
		n := p.oe[i]
		if n.Type != ElementNode || n.Namespace != "" {
			return -1
		}
		tagAtom := n.DataAtom
		for _, t := range matchTags {
			if t == tagAtom {
				return i
			}
		}
		switch s {
		case defaultScope:
			// No-op.
		case listItemScope:
			if tagAtom == a.Ol || tagAtom == a.Ul {
				return -1
			}
		case buttonScope:
			if tagAtom == a.Button {
				return -1
			}
		case tableScope:
			if tagAtom == a.Html || tagAtom == a.Table || tagAtom == a.Template {
				return -1
			}
		case tableRowScope:
			if tagAtom == a.Html || tagAtom == a.Table || tagAtom == a.Template || tagAtom == a.Tr {
				return -1
			}
		case definitionScope:
			if tagAtom == a.Dl {
				return -1
			}
		default:
			panic("unreachable")
		}
		switch s {
		case defaultScope, listItemScope, buttonScope, definitionScope:
			for _, t := range defaultScopeStopTags {
				if t == tagAtom {
					return -1
				}
			}
		}
	}
	return -1
}

// generateImpliedEndTags closes the elements the start tag of atom ends
// implicitly, like an open <li> before another <li>.
func (p *parser) generateImpliedEndTags(atom a.Atom) {
	switch atom {
	case a.Li:
		p.popUntil(listItemScope, a.Li)
	case a.Dd, a.Dt:
		p.popUntil(definitionScope, a.Dd, a.Dt)
	case a.Option:
		if top := p.top(); top.Type == ElementNode && top.DataAtom == a.Option {
			p.popTo(len(p.oe) - 1)
		}
	case a.Optgroup:
		if top := p.top(); top.Type == ElementNode && top.DataAtom == a.Option {
			p.popTo(len(p.oe) - 1)
		}
		if top := p.top(); top.Type == ElementNode && top.DataAtom == a.Optgroup {
			p.popTo(len(p.oe) - 1)
		}
	case a.Tr:
		p.popUntil(tableScope, a.Tr)
	case a.Td, a.Th:
		p.popUntil(tableRowScope, a.Td, a.Th)
	case a.Thead, a.Tbody, a.Tfoot:
		p.popUntil(tableScope, a.Thead, a.Tbody, a.Tfoot)
	case a.Address, a.Article, a.Aside, a.Blockquote, a.Center, a.Details, a.Dialog, a.Dir,
		a.Div, a.Dl, a.Fieldset, a.Figcaption, a.Figure, a.Footer, a.Form, a.H1, a.H2, a.H3,
		a.H4, a.H5, a.H6, a.Header, a.Hgroup, a.Hr, a.Listing, a.Main, a.Menu, a.Nav, a.Ol,
		a.P, a.Pre, a.Section, a.Summary, a.Table, a.Ul, a.Xmp:
		p.popUntil(buttonScope, a.P)
	}
}
