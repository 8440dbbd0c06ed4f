package doc

import (
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Writer resolves documents into text.
type Writer struct {
	indent   string
	maxWidth int
}

// NewWriter returns a Writer that indents with the given unit and breaks
// groups wider than maxWidth columns. Columns are measured in terminal cells.
func NewWriter(indent string, maxWidth int) *Writer {
	return &Writer{indent: indent, maxWidth: maxWidth}
}

// Write resolves d. The top level behaves like the inside of an Indent at
// depth zero: its breaks are always taken. Breaks are emitted lazily, so
// consecutive breaks collapse into one, no line ends in whitespace and the
// output never starts with a newline.
func (w *Writer) Write(d Doc) string {
	p := &printer{w: w}
	p.seq(Flatten(d), "", true)
	return p.buf.String()
}

type printer struct {
	w   *Writer
	buf bytes.Buffer
	col int

	pending       bool
	pendingIndent string
}

func (p *printer) seq(parts []Doc, indent string, hard bool) {
	for i, chunk := range splitHard(parts) {
		if i > 0 {
			p.newline(indent)
		}
		broken := hard
		if !broken {
			width, forced := measure(chunk, false, p.w.maxWidth-p.col)
			broken = forced || p.col+width > p.w.maxWidth
		}
		p.chunk(chunk, indent, broken)
	}
}

func (p *printer) chunk(parts []Doc, indent string, broken bool) {
	for i, d := range parts {
		switch d := d.(type) {
		case Text:
			p.text(string(d))
		case softline:
			if broken {
				p.newline(indent)
			}
		case line:
			if broken {
				p.newline(indent)
			} else if i < len(parts)-1 {
				p.text(" ")
			}
		case hardline:
			p.newline(indent)
		case Group:
			p.seq(d.parts, indent, false)
		case Indent:
			p.seq(d.parts, indent+p.w.indent, true)
		case Align:
			p.chunk(d.parts, indent+strings.Repeat(" ", d.Width), broken)
		case Hang:
			p.chunk(d.parts, strings.Repeat(" ", p.col+d.Offset), broken)
		case Fill:
			p.fill(d.words, indent)
		case Concat:
			p.chunk(Flatten(d...), indent, broken)
		}
	}
}

func (p *printer) fill(words []string, indent string) {
	for i, word := range words {
		if i > 0 {
			if p.col+1+runewidth.StringWidth(word) > p.w.maxWidth {
				p.newline(indent)
			} else {
				p.text(" ")
			}
		}
		p.text(word)
	}
}

func (p *printer) newline(indent string) {
	p.pending = true
	p.pendingIndent = indent
	p.col = runewidth.StringWidth(indent)
}

func (p *printer) text(s string) {
	if s == "" {
		return
	}
	if p.pending {
		p.pending = false
		if p.buf.Len() > 0 {
			p.trimLine()
			p.buf.WriteByte('\n')
			p.buf.WriteString(p.pendingIndent)
		}
		p.col = runewidth.StringWidth(p.pendingIndent)
		if p.buf.Len() == 0 {
			p.col = 0
		}
	}
	p.buf.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.col = runewidth.StringWidth(s[i+1:])
	} else {
		p.col += runewidth.StringWidth(s)
	}
}

// trimLine drops spaces and tabs left at the end of the current line.
func (p *printer) trimLine() {
	b := p.buf.Bytes()
	n := len(b)
	for n > 0 && (b[n-1] == ' ' || b[n-1] == '\t') {
		n--
	}
	p.buf.Truncate(n)
}

func splitHard(parts []Doc) [][]Doc {
	chunks := [][]Doc{nil}
	for _, d := range parts {
		if _, ok := d.(hardline); ok {
			chunks = append(chunks, nil)
			continue
		}
		chunks[len(chunks)-1] = append(chunks[len(chunks)-1], d)
	}
	return chunks
}

// measure returns the flat width of parts up to the first unconditional
// break, and whether such a break exists. inIndent reports whether the parts
// sit directly in an Indent, where every break is taken. Measuring stops
// once the width exceeds budget.
func measure(parts []Doc, inIndent bool, budget int) (width int, forced bool) {
	for _, d := range parts {
		if width > budget {
			return width, false
		}
		var w int
		switch d := d.(type) {
		case Text:
			s := string(d)
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				return width + runewidth.StringWidth(s[:i]), true
			}
			w = runewidth.StringWidth(s)
		case softline:
			if inIndent {
				return width, true
			}
		case line:
			if inIndent {
				return width, true
			}
			w = 1
		case hardline:
			return width, true
		case Group:
			w, forced = measure(d.parts, false, budget-width)
		case Indent:
			w, forced = measure(d.parts, true, budget-width)
		case Align:
			w, forced = measure(d.parts, inIndent, budget-width)
		case Hang:
			w, forced = measure(d.parts, inIndent, budget-width)
		case Fill:
			for i, word := range d.words {
				if i > 0 {
					w++
				}
				w += runewidth.StringWidth(word)
				if width+w > budget {
					break
				}
			}
		case Concat:
			w, forced = measure(Flatten(d...), inIndent, budget-width)
		}
		width += w
		if forced {
			return width, true
		}
	}
	return width, false
}
