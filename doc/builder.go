package doc

import "slices"

// Builder accumulates parts in order and produces an immutable document.
// Container methods take a body function that fills the nested container:
//
//	var b doc.Builder
//	b.Text("<p>").Indent(func(b *doc.Builder) {
//		b.Softline().Fill("some", "words")
//	}).Softline().Text("</p>")
//	d := b.Doc()
type Builder struct {
	parts []Doc
}

// Text appends a literal string. Empty strings are ignored.
func (b *Builder) Text(s string) *Builder {
	if s != "" {
		b.parts = append(b.parts, Text(s))
	}
	return b
}

// Softline appends a Softline.
func (b *Builder) Softline() *Builder {
	b.parts = append(b.parts, Softline)
	return b
}

// Line appends a Line.
func (b *Builder) Line() *Builder {
	b.parts = append(b.parts, Line)
	return b
}

// Hardline appends a Hardline.
func (b *Builder) Hardline() *Builder {
	b.parts = append(b.parts, Hardline)
	return b
}

// Fill appends a Fill over words.
func (b *Builder) Fill(words ...string) *Builder {
	if f := NewFill(words...); len(f.words) > 0 {
		b.parts = append(b.parts, f)
	}
	return b
}

// Group appends a Group holding whatever body appends.
func (b *Builder) Group(body func(*Builder)) *Builder {
	var nb Builder
	body(&nb)
	b.parts = append(b.parts, Group{parts: nb.flat()})
	return b
}

// Indent appends an Indent holding whatever body appends.
func (b *Builder) Indent(body func(*Builder)) *Builder {
	var nb Builder
	body(&nb)
	b.parts = append(b.parts, Indent{parts: nb.flat()})
	return b
}

// Align appends an Align of width spaces holding whatever body appends.
func (b *Builder) Align(width int, body func(*Builder)) *Builder {
	var nb Builder
	body(&nb)
	b.parts = append(b.parts, NewAlign(width, nb.parts...))
	return b
}

// Hang appends a Hang of offset spaces past the current column holding
// whatever body appends.
func (b *Builder) Hang(offset int, body func(*Builder)) *Builder {
	var nb Builder
	body(&nb)
	b.parts = append(b.parts, NewHang(offset, nb.parts...))
	return b
}

// Append adds already built documents.
func (b *Builder) Append(ds ...Doc) *Builder {
	b.parts = append(b.parts, ds...)
	return b
}

// Len reports the number of parts appended so far.
func (b *Builder) Len() int {
	return len(b.parts)
}

// Doc returns the accumulated parts as a flat Concat. Later appends do not
// affect the returned value.
func (b *Builder) Doc() Concat {
	return Concat(b.flat())
}

func (b *Builder) flat() []Doc {
	return slices.Clip(Flatten(b.parts...))
}
