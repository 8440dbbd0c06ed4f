// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Nodes live in a Tree arena and refer to each other by index.
//  - Node types cover template constructs of several dialects.
//  - Nodes keep the whitespace properties needed to lay the source out again.

// Package markup turns HTML mixed with template syntax into a tree and lays
// the tree out as a document of the doc package.
package markup

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// A NodeType is the type of a Node.
type NodeType uint8

const (
	RootNode NodeType = iota
	DataNode
	// RawNode is printed byte for byte: format-off regions, CDATA sections
	// and processing instructions.
	RawNode
	ElementNode
	VoidElementNode
	// EndTagNode is an end tag that matched no open element.
	EndTagNode
	CommentNode
	DeclarationNode
	TemplateOpenNode
	TemplateCloseNode
	TemplateStatementNode
	TemplateCommentNode
)

var nodeTypeNames = [...]string{
	RootNode:              "root",
	DataNode:              "data",
	RawNode:               "raw",
	ElementNode:           "element",
	VoidElementNode:       "void",
	EndTagNode:            "end-tag",
	CommentNode:           "comment",
	DeclarationNode:       "declaration",
	TemplateOpenNode:      "template-open",
	TemplateCloseNode:     "template-close",
	TemplateStatementNode: "template-statement",
	TemplateCommentNode:   "template-comment",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "invalid"
}

// A Node is one unit of markup or template syntax.
type Node struct {
	tree *Tree
	id   int

	Type    NodeType
	Dialect Dialect
	// DataAtom is the atom of a known HTML tag name.
	DataAtom atom.Atom
	// Raw is the name as spelled in the source.
	Raw string
	// Name is the canonical name: lower-cased for known HTML tags, the
	// keyword for template constructs.
	Name      string
	Namespace string
	// Attr is the raw attribute string of a tag or the arguments of a
	// template construct.
	Attr string
	// Data is the text of data, comment and raw nodes, and the trimmed body
	// of template constructs.
	Data  string
	Props Props
	// Match is the block name that closes a template open node. Branches
	// such as {% else %} carry the name of the block they continue.
	Match string
	// Closed is set when an explicit end tag closed the node.
	Closed bool
	Span   Span

	parent, prev, next int
	index              int
	children           []int
}

// ID returns the index of n in its tree.
func (n *Node) ID() int { return n.id }

// Tree returns the tree n belongs to.
func (n *Node) Tree() *Tree { return n.tree }

func (n *Node) at(id int) *Node {
	if id < 0 {
		return nil
	}
	return n.tree.nodes[id]
}

// Parent returns the parent of n, or nil for the root.
func (n *Node) Parent() *Node { return n.at(n.parent) }

// Prev returns the node completed just before n in document order.
func (n *Node) Prev() *Node { return n.at(n.prev) }

// Next returns the node whose Prev is n.
func (n *Node) Next() *Node { return n.at(n.next) }

// PrevSibling returns the previous child of the parent of n.
func (n *Node) PrevSibling() *Node {
	p := n.Parent()
	if p == nil || n.index == 0 {
		return nil
	}
	return n.at(p.children[n.index-1])
}

// NextSibling returns the next child of the parent of n.
func (n *Node) NextSibling() *Node {
	p := n.Parent()
	if p == nil || n.index+1 >= len(p.children) {
		return nil
	}
	return n.at(p.children[n.index+1])
}

// FirstChild returns the first child of n.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.at(n.children[0])
}

// LastChild returns the last child of n.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.at(n.children[len(n.children)-1])
}

// Children returns the children of n in order.
func (n *Node) Children() []*Node {
	cs := make([]*Node, len(n.children))
	for i, id := range n.children {
		cs[i] = n.at(id)
	}
	return cs
}

// HasChildren reports whether n has any children.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// IsWhitespace reports whether n is a data node holding only whitespace.
func (n *Node) IsWhitespace() bool {
	return n.Type == DataNode && strings.TrimLeft(n.Data, whitespace) == ""
}

// IsTemplate reports whether n is a template construct.
func (n *Node) IsTemplate() bool {
	switch n.Type {
	case TemplateOpenNode, TemplateCloseNode, TemplateStatementNode, TemplateCommentNode:
		return true
	}
	return false
}

// IsBranch reports whether n continues a template block, like {% else %}.
func (n *Node) IsBranch() bool {
	return n.Type == TemplateOpenNode && n.Match != n.Name
}

// Words returns the whitespace separated words of a data node.
func (n *Node) Words() []string {
	return strings.Fields(n.Data)
}

// A Tree owns the nodes built from one source text. Node 0 is the root.
type Tree struct {
	nodes []*Node
	ctx   *TreeContext
	opts  Options
}

func newTree(ctx *TreeContext, opts Options) *Tree {
	t := &Tree{ctx: ctx, opts: opts}
	t.add(Node{Type: RootNode})
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.nodes[0] }

// Len returns the number of nodes, the root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id.
func (t *Tree) Node(id int) *Node { return t.nodes[id] }

// Context returns the context the tree was built in.
func (t *Tree) Context() *TreeContext { return t.ctx }

// Walk calls fn for every node below the root in document order. It stops
// descending into a node when fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children() {
			if fn(c) {
				walk(c)
			}
		}
	}
	walk(t.Root())
}

func (t *Tree) add(n Node) *Node {
	n.tree = t
	n.id = len(t.nodes)
	n.parent, n.prev, n.next = -1, -1, -1
	p := &n
	t.nodes = append(t.nodes, p)
	return p
}

// appendChild adds a node c as the last child of n.
//
// It will panic if c already has a parent.
func (n *Node) appendChild(c *Node) {
	if c.parent >= 0 {
		panic("markup: appendChild called for an attached child Node")
	}
	c.parent = n.id
	c.index = len(n.children)
	n.children = append(n.children, c.id)
}

// nodeStack is a stack of nodes.
type nodeStack []*Node

// pop pops the stack. It will panic if the stack is empty.
func (s *nodeStack) pop() *Node {
	i := len(*s)
	n := (*s)[i-1]
	*s = (*s)[:i-1]
	return n
}

// top returns the most recently pushed node, or nil if the stack is empty.
func (s *nodeStack) top() *Node {
	if i := len(*s); i > 0 {
		return (*s)[i-1]
	}
	return nil
}

const whitespace = " \t\r\n\f"
