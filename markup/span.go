package markup

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Span represents a source location in a file
type Span struct {
	Offset int // Byte offset in the file
	Line   int // 1-based line number
	Column int // 1-based column number (in runes, not bytes)
	Length int // Length in bytes
}

// Source represents a source location with optional file information
type Source struct {
	File string // File path (can be empty)
	Span Span   // Location within the file
}

// IsZero returns true if the span is uninitialized
func (s Span) IsZero() bool {
	return s.Offset == 0 && s.Line == 0 && s.Column == 0 && s.Length == 0
}

// End returns the end offset of the span
func (s Span) End() int {
	return s.Offset + s.Length
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

func (s Source) String() string {
	if s.File == "" {
		return s.Span.String()
	}
	return s.File + ":" + s.Span.String()
}

// lineIndex holds the byte offsets at which lines start.
type lineIndex []int

func newLineIndex(src string) lineIndex {
	li := lineIndex{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			li = append(li, i+1)
		}
	}
	return li
}

func (li lineIndex) span(src string, start, end int) Span {
	line := sort.Search(len(li), func(i int) bool { return li[i] > start }) - 1
	if line < 0 {
		line = 0
	}
	return Span{
		Offset: start,
		Line:   line + 1,
		Column: utf8.RuneCountInString(src[li[line]:start]) + 1,
		Length: end - start,
	}
}

// Positions maps byte offsets of a source to spans.
type Positions struct {
	src   string
	lines lineIndex
}

// NewPositions indexes the lines of src.
func NewPositions(src string) *Positions {
	return &Positions{src: src, lines: newLineIndex(src)}
}

// Span returns the span of src[start:end].
func (p *Positions) Span(start, end int) Span {
	return p.lines.span(p.src, start, end)
}
