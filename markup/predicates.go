package markup

import "strings"

// Display returns the CSS display value n is laid out with. Template
// blocks, declarations and raw regions behave like blocks; template
// statements, comments and text flow inline.
func (n *Node) Display() string {
	switch n.Type {
	case RootNode, RawNode, DeclarationNode, TemplateOpenNode, TemplateCloseNode:
		return "block"
	case TemplateStatementNode:
		if n.Dialect == Percent && blockLikeStatements[n.Name] {
			return "block"
		}
		return "inline"
	case ElementNode, VoidElementNode, EndTagNode:
		if n.Namespace == "" {
			if d, ok := defaultDisplay[n.Name]; ok {
				return d
			}
		}
	}
	return "inline"
}

// IsBlockLike reports whether n starts on a line of its own.
func (n *Node) IsBlockLike() bool {
	return isBlockLikeDisplay(n.Display())
}

func (n *Node) whiteSpace() string {
	if n.Type != ElementNode || n.Namespace != "" {
		return ""
	}
	return defaultWhiteSpace[n.Name]
}

// IsScriptLike reports whether n is a script or style element.
func (n *Node) IsScriptLike() bool {
	if n.Type != ElementNode {
		return false
	}
	switch n.Name {
	case "script", "style":
		return n.Namespace == "" || n.Namespace == "svg"
	}
	return false
}

// IsRawBlock reports whether n is a template block whose content is not
// template syntax, like {% raw %} or {% comment %}.
func (n *Node) IsRawBlock() bool {
	if n.Type != TemplateOpenNode {
		return false
	}
	switch n.Dialect {
	case PercentComment, CurlyFour:
		return true
	case Percent:
		return n.Name == "raw" || n.Name == "verbatim"
	}
	return false
}

// IsIndentationSensitive reports whether inserting indentation inside n
// changes what it renders: pre-formatted elements and raw template blocks.
func (n *Node) IsIndentationSensitive() bool {
	return strings.HasPrefix(n.whiteSpace(), "pre") || n.IsRawBlock()
}

// IsWhitespaceSensitive reports whether any whitespace change inside n is
// visible.
func (n *Node) IsWhitespaceSensitive() bool {
	return n.IsScriptLike() || n.IsIndentationSensitive()
}

// isPreformatted reports whether n or one of its ancestors is whitespace
// sensitive. The content of such nodes is printed as is.
func (n *Node) isPreformatted() bool {
	for x := n; x != nil && x.Type != RootNode; x = x.Parent() {
		if x.IsWhitespaceSensitive() {
			return true
		}
	}
	return false
}

func (n *Node) isTextLike() bool {
	switch n.Type {
	case DataNode, CommentNode, TemplateCommentNode:
		return true
	case TemplateStatementNode:
		return n.Display() == "inline"
	}
	return false
}

func (n *Node) isDataOrStatement() bool {
	return n.Type == DataNode || n.Type == TemplateStatementNode && n.Display() == "inline"
}

func (n *Node) hasLeadingSpace() bool  { return n.Props.Has(PropLeadingSpace) }
func (n *Node) hasTrailingSpace() bool { return n.Props.Has(PropTrailingSpace) }
func (n *Node) hasDanglingSpace() bool { return n.Props.Has(PropDanglingSpace) }

// leadingSpaceSensitive looks at n, its parent and its previous sibling.
// The checks run in order; the first that applies decides.
func (n *Node) leadingSpaceSensitive() bool {
	parent, prev := n.Parent(), n.PrevSibling()
	switch {
	case parent == nil:
		return false
	case n.isDataOrStatement() && prev != nil && prev.isDataOrStatement():
		return true
	case parent.Display() == "none":
		return true
	case parent.IsIndentationSensitive():
		return true
	case n.IsBlockLike():
		return false
	case prev == nil && (parent.Type == RootNode || parent.IsScriptLike() ||
		!isFirstChildLeadingSpaceSensitiveDisplay(parent.Display())):
		return false
	case prev != nil && prev.IsBlockLike():
		return false
	}
	return true
}

// trailingSpaceSensitive mirrors leadingSpaceSensitive with the next
// sibling.
func (n *Node) trailingSpaceSensitive() bool {
	parent, next := n.Parent(), n.NextSibling()
	switch {
	case parent == nil:
		return false
	case n.isDataOrStatement() && next != nil && next.isDataOrStatement():
		return true
	case parent.Display() == "none":
		return true
	case parent.IsIndentationSensitive():
		return true
	case n.IsBlockLike():
		return false
	case next == nil && (parent.Type == RootNode || parent.IsScriptLike() ||
		!isFirstChildLeadingSpaceSensitiveDisplay(parent.Display())):
		return false
	case next != nil && next.IsBlockLike():
		return false
	}
	return true
}

// IsLeadingSpaceSensitive reports whether whitespace before n is
// significant. Both n and its previous sibling have to agree.
func (n *Node) IsLeadingSpaceSensitive() bool {
	if !n.leadingSpaceSensitive() {
		return false
	}
	prev := n.PrevSibling()
	return prev == nil || prev.trailingSpaceSensitive()
}

// IsTrailingSpaceSensitive reports whether whitespace after n is
// significant. Both n and its next sibling have to agree.
func (n *Node) IsTrailingSpaceSensitive() bool {
	if !n.trailingSpaceSensitive() {
		return false
	}
	next := n.NextSibling()
	return next == nil || next.leadingSpaceSensitive()
}

// IsDanglingSpaceSensitive reports whether whitespace inside an element
// without children is significant.
func (n *Node) IsDanglingSpaceSensitive() bool {
	return isFirstChildLeadingSpaceSensitiveDisplay(n.Display()) && !n.IsScriptLike()
}

// ShouldHugContent reports whether the only child of n is a template
// statement glued to both sides of n, as in <title>{{ x }}</title>. No
// break is ever put around it.
func (n *Node) ShouldHugContent() bool {
	if len(n.children) != 1 {
		return false
	}
	c := n.FirstChild()
	return c.Type == TemplateStatementNode && c.Display() == "inline" &&
		c.IsLeadingSpaceSensitive() && !c.hasLeadingSpace() &&
		c.IsTrailingSpaceSensitive() && !c.hasTrailingSpace()
}

// ShouldForceBreakChildren reports whether every child of n goes on a line
// of its own.
func (n *Node) ShouldForceBreakChildren() bool {
	if n.Type != ElementNode || !n.HasChildren() {
		return false
	}
	switch n.Name {
	case "html", "head", "ul", "ol", "select":
		return true
	}
	d := n.Display()
	return strings.HasPrefix(d, "table") && d != "table-cell"
}

// ShouldForceBreak reports whether the content of n never shares a line
// with its opening and closing tags. The checks run in order.
func (n *Node) ShouldForceBreak() bool {
	if n.ShouldForceBreakChildren() {
		return true
	}
	if !n.HasChildren() {
		return false
	}
	if n.Type == TemplateOpenNode {
		return !n.IsRawBlock()
	}
	if n.Type == ElementNode {
		switch n.Name {
		case "body", "script", "style":
			return true
		}
		for _, c := range n.Children() {
			if c.hasNonTextChild() {
				return true
			}
		}
	}
	first, last := n.FirstChild(), n.LastChild()
	return first == last && first.Type != DataNode && first.Props.Has(PropLeadingBreak) &&
		(!last.IsTrailingSpaceSensitive() || last.Props.Has(PropTrailingBreak))
}

func (n *Node) hasNonTextChild() bool {
	for _, c := range n.Children() {
		if c.Type != DataNode {
			return true
		}
	}
	return false
}

// NeedsToBorrowPrevClosingTagEndMarker reports whether n is glued to the
// closing tag of its previous sibling. The '>' of that tag is then printed
// in front of n, so that a line break can go inside the tag rather than
// between the two nodes:
//
//	<strong>a</strong
//	>-
func (n *Node) NeedsToBorrowPrevClosingTagEndMarker() bool {
	prev := n.PrevSibling()
	if prev == nil || n.Parent().isPreformatted() {
		return false
	}
	switch prev.Type {
	case ElementNode:
		if !prev.Closed {
			return false
		}
	case VoidElementNode, EndTagNode:
	default:
		return false
	}
	return n.IsLeadingSpaceSensitive() && !n.hasLeadingSpace()
}

// closingTagEndMarker is the text a following sibling borrows from n.
func (n *Node) closingTagEndMarker() string {
	if n.Type == VoidElementNode && n.Props.Has(PropSelfClosing) {
		return "/>"
	}
	return ">"
}
