// Package doc is a small document algebra for pretty printing.
//
// A document is a tree of literal [Text], break markers ([Softline], [Line],
// [Hardline]) and containers ([Group], [Indent], [Align], [Hang], [Fill]). Documents
// are values: containers copy their parts on construction and never change
// afterwards. Use a [Builder] to assemble them incrementally and a [Writer] to
// resolve them into text for a given indentation unit and line width.
//
// Break resolution works on chunks, the runs of parts between two Hardlines:
//
//   - a chunk directly inside an Indent (or at the top level) always breaks,
//   - a chunk inside a Group breaks when it does not fit on the current line
//     or when something nested in it breaks unconditionally,
//   - a broken Softline or Line becomes a newline followed by the indentation,
//     an unbroken Softline disappears and an unbroken Line becomes a space.
package doc

import (
	"fmt"
	"slices"
	"strings"
)

// Doc is a node of the document algebra. The set of implementations is
// closed: Text, Concat, Group, Indent, Align, Hang, Fill and the three break
// markers.
type Doc interface {
	doc()
}

// Text is a literal string. It is printed as is, newlines included.
type Text string

// Concat is a plain sequence of documents. It has no layout meaning of its
// own and is removed by [Flatten].
type Concat []Doc

type softline struct{}

type line struct{}

type hardline struct{}

var (
	// Softline breaks when its chunk breaks and vanishes otherwise.
	Softline Doc = softline{}

	// Line breaks when its chunk breaks and prints a space otherwise (nothing
	// when it ends the chunk).
	Line Doc = line{}

	// Hardline always breaks and splits the enclosing sequence into chunks.
	Hardline Doc = hardline{}
)

// Group resolves its parts at the indentation of its container, breaking
// them only when they do not fit.
type Group struct {
	parts []Doc
}

// Indent resolves its parts one indentation unit deeper. Breaks placed
// directly in an Indent are always taken.
type Indent struct {
	parts []Doc
}

// Align resolves its parts with Width extra spaces of indentation. Breaks in
// an Align follow the decision of the chunk it belongs to.
type Align struct {
	Width int
	parts []Doc
}

// Hang resolves its parts with the indentation set to the column it starts
// at plus Offset spaces. Like Align, its breaks follow the decision of the
// chunk it belongs to.
type Hang struct {
	Offset int
	parts  []Doc
}

// Fill packs words greedily, separated by single spaces, and wraps before a
// word that would overflow the line.
type Fill struct {
	words []string
}

func (Text) doc()     {}
func (Concat) doc()   {}
func (softline) doc() {}
func (line) doc()     {}
func (hardline) doc() {}
func (Group) doc()    {}
func (Indent) doc()   {}
func (Align) doc()    {}
func (Hang) doc()     {}
func (Fill) doc()     {}

// NewGroup returns a Group over the flattened parts.
func NewGroup(parts ...Doc) Group {
	return Group{parts: Flatten(parts...)}
}

// NewIndent returns an Indent over the flattened parts.
func NewIndent(parts ...Doc) Indent {
	return Indent{parts: Flatten(parts...)}
}

// NewAlign returns an Align adding width spaces of indentation.
func NewAlign(width int, parts ...Doc) Align {
	if width < 0 {
		width = 0
	}
	return Align{Width: width, parts: Flatten(parts...)}
}

// NewHang returns a Hang indenting to the start column plus offset spaces.
func NewHang(offset int, parts ...Doc) Hang {
	if offset < 0 {
		offset = 0
	}
	return Hang{Offset: offset, parts: Flatten(parts...)}
}

// NewFill returns a Fill over the non-empty words.
func NewFill(words ...string) Fill {
	f := Fill{words: make([]string, 0, len(words))}
	for _, w := range words {
		if w != "" {
			f.words = append(f.words, w)
		}
	}
	return f
}

// Parts returns a copy of the group parts.
func (g Group) Parts() []Doc { return slices.Clone(g.parts) }

// Parts returns a copy of the indented parts.
func (i Indent) Parts() []Doc { return slices.Clone(i.parts) }

// Parts returns a copy of the aligned parts.
func (a Align) Parts() []Doc { return slices.Clone(a.parts) }

// Parts returns a copy of the hanging parts.
func (h Hang) Parts() []Doc { return slices.Clone(h.parts) }

// Words returns a copy of the words to fill.
func (f Fill) Words() []string { return slices.Clone(f.words) }

// Flatten normalizes nested Concat sequences into one flat slice. Empty
// Text and nil values are dropped; containers are kept as single elements.
// Flatten(a, Concat{b, c}) and Flatten(Concat{a, b}, c) are equal.
func Flatten(parts ...Doc) []Doc {
	out := make([]Doc, 0, len(parts))
	var walk func([]Doc)
	walk = func(ds []Doc) {
		for _, d := range ds {
			switch d := d.(type) {
			case nil:
			case Concat:
				walk(d)
			case Text:
				if d != "" {
					out = append(out, d)
				}
			default:
				out = append(out, d)
			}
		}
	}
	walk(parts)
	return out
}

// String renders the structure of d for debugging, e.g.
// group("<p>", indent(softline, fill("a b")), "</p>").
func String(d Doc) string {
	var sb strings.Builder
	writeString(&sb, d)
	return sb.String()
}

func writeString(sb *strings.Builder, d Doc) {
	list := func(name string, parts []Doc) {
		sb.WriteString(name)
		sb.WriteByte('(')
		for i, p := range parts {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeString(sb, p)
		}
		sb.WriteByte(')')
	}
	switch d := d.(type) {
	case Text:
		fmt.Fprintf(sb, "%q", string(d))
	case Concat:
		list("concat", d)
	case softline:
		sb.WriteString("softline")
	case line:
		sb.WriteString("line")
	case hardline:
		sb.WriteString("hardline")
	case Group:
		list("group", d.parts)
	case Indent:
		list("indent", d.parts)
	case Align:
		list(fmt.Sprintf("align%d", d.Width), d.parts)
	case Hang:
		list(fmt.Sprintf("hang%d", d.Offset), d.parts)
	case Fill:
		fmt.Fprintf(sb, "fill(%q)", strings.Join(d.words, " "))
	case nil:
		sb.WriteString("nil")
	}
}
