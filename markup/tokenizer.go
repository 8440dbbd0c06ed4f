package markup

import (
	"regexp"
	"strings"
)

// A Tokenizer returns a stream of markup and template tokens. It never
// fails: text it cannot classify is returned as data.
//
// Typical use:
//
//	z := markup.NewTokenizer(src, markup.Options{})
//	for z.Next() != markup.EOFToken {
//		tok := z.Token()
//		...
//	}
type Tokenizer struct {
	src   string
	pos   int
	ts    *templateScanner
	lines lineIndex

	off, on *regexp.Regexp

	tok   Token
	queue []Token
	// rawTag is the raw text element whose content comes next.
	rawTag string
}

// NewTokenizer returns a Tokenizer for src.
func NewTokenizer(src string, opts Options) *Tokenizer {
	opts = opts.withDefaults()
	return &Tokenizer{
		src:   src,
		ts:    newTemplateScanner(src, opts.CustomBlocks),
		lines: newLineIndex(src),
		off:   markerPattern(opts.FormatOff),
		on:    markerPattern(opts.FormatOn),
	}
}

// Token returns the current token.
func (z *Tokenizer) Token() Token {
	return z.tok
}

// Next scans the next token and returns its type.
func (z *Tokenizer) Next() TokenType {
	if len(z.queue) > 0 {
		z.tok, z.queue = z.queue[0], z.queue[1:]
		return z.tok.Type
	}
	if z.pos >= len(z.src) {
		z.tok = Token{Type: EOFToken, Span: z.lines.span(z.src, len(z.src), len(z.src))}
		return EOFToken
	}
	if tag := z.rawTag; tag != "" {
		z.rawTag = ""
		if z.rawText(tag) {
			return z.tok.Type
		}
	}
	switch z.src[z.pos] {
	case '<':
		if z.markup() {
			return z.tok.Type
		}
	case '{', '\\', '@':
		if z.template() {
			return z.tok.Type
		}
	}
	z.data()
	return z.tok.Type
}

func (z *Tokenizer) emit(tok Token, start, end int) {
	tok.Span = z.lines.span(z.src, start, end)
	z.tok = tok
	z.pos = end
}

func (z *Tokenizer) enqueue(tok Token, start, end int) {
	tok.Span = z.lines.span(z.src, start, end)
	z.queue = append(z.queue, tok)
	z.pos = end
}

func (z *Tokenizer) data() {
	start := z.pos
	end := start + 1
	for end < len(z.src) && strings.IndexByte("<{\\@", z.src[end]) < 0 {
		end++
	}
	z.emit(Token{Type: DataToken, Data: z.src[start:end]}, start, end)
}

// rawText scans the content of a script, style or textarea element.
func (z *Tokenizer) rawText(tag string) bool {
	rest := z.src[z.pos:]
	i := indexCloseTag(rest, tag)
	if i == 0 {
		return false
	}
	z.emit(Token{Type: DataToken, Data: rest[:i]}, z.pos, z.pos+i)
	return true
}

// indexCloseTag returns the offset of the first "</tag" in s, matched
// without regard to ASCII case, or len(s).
func indexCloseTag(s, tag string) int {
	n := len(tag) + 2
	for i := 0; i+n <= len(s); i++ {
		if s[i] == '<' && s[i+1] == '/' && strings.EqualFold(s[i+2:i+n], tag) {
			return i
		}
	}
	return len(s)
}

func (z *Tokenizer) markup() bool {
	start := z.pos
	rest := z.src[start:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		i := strings.Index(rest[4:], "-->")
		if i < 0 {
			return false
		}
		content := rest[4 : 4+i]
		z.emit(Token{Type: CommentToken, Data: content}, start, start+i+7)
		z.formatOff(start, content)
	case strings.HasPrefix(rest, "<![CDATA["):
		i := strings.Index(rest, "]]>")
		if i < 0 {
			return false
		}
		z.emit(Token{Type: RawToken, Data: rest[:i+3]}, start, start+i+3)
	case strings.HasPrefix(rest, "<?"):
		i := strings.IndexByte(rest, '>')
		if i < 0 {
			return false
		}
		z.emit(Token{Type: RawToken, Data: rest[:i+1]}, start, start+i+1)
	case strings.HasPrefix(rest, "<!"):
		i := strings.IndexByte(rest, '>')
		if i < 0 {
			return false
		}
		name, attr := splitName(rest[2:i])
		if name == "" {
			return false
		}
		z.emit(Token{Type: DeclarationToken, Name: name, Attr: attr}, start, start+i+1)
	case strings.HasPrefix(rest, "</"):
		n := tagNameLen(rest[2:])
		if n == 0 {
			return false
		}
		i := strings.IndexByte(rest, '>')
		if i < 0 || strings.IndexByte(rest[2+n:i], '<') >= 0 {
			return false
		}
		z.emit(Token{Type: EndTagToken, Name: rest[2 : 2+n], Attr: strings.TrimSpace(rest[2+n : i])}, start, start+i+1)
	default:
		n := tagNameLen(rest[1:])
		if n == 0 {
			return false
		}
		end, ok := z.tagEnd(start + 1 + n)
		if !ok {
			return false
		}
		tok := Token{
			Type: StartTagToken,
			Name: rest[1 : 1+n],
			Attr: strings.TrimSpace(z.src[start+1+n : end]),
		}
		if isSelfClosing(z.src[start+1+n : end]) {
			tok.Type = SelfClosingTagToken
			tok.Props |= PropSelfClosing
			tok.Attr = strings.TrimSpace(strings.TrimSuffix(tok.Attr, "/"))
		}
		z.emit(tok, start, end+1)
		if tok.Type == StartTagToken && isRawTextTag(tok.Name) {
			z.rawTag = strings.ToLower(tok.Name)
		}
	}
	return true
}

// isSelfClosing reports whether the attributes of a start tag end with the
// self-closing slash. A slash right after an unquoted value belongs to the
// value, as in <img src=a/>.
func isSelfClosing(attrs string) bool {
	attrs = strings.TrimRight(attrs, whitespace)
	if !strings.HasSuffix(attrs, "/") {
		return false
	}
	before := attrs[:len(attrs)-1]
	if before == "" || strings.ContainsAny(before[len(before)-1:], whitespace+`"'`) {
		return true
	}
	last := before[strings.LastIndexAny(before, whitespace)+1:]
	i := strings.IndexByte(last, '=')
	return i < 0 || i+1 < len(last) && (last[i+1] == '"' || last[i+1] == '\'')
}

// tagNameLen returns the length of the tag name at the start of s. Tag
// names start with an ASCII letter.
func tagNameLen(s string) int {
	if s == "" || !isASCIILetter(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && strings.IndexByte(" \t\r\n\f/><\"'={", s[i]) < 0 {
		i++
	}
	return i
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isRawTextTag(name string) bool {
	switch strings.ToLower(name) {
	case "script", "style", "textarea":
		return true
	}
	return false
}

// tagEnd returns the offset of the '>' closing the tag whose attributes
// start at i. Quoted values and template constructs may contain '>'.
func (z *Tokenizer) tagEnd(i int) (int, bool) {
	var quote byte
	for i < len(z.src) {
		c := z.src[i]
		if c == '{' || c == '\\' || c == '@' {
			if _, end, ok := z.ts.scan(z.src, i); ok {
				i = end
				continue
			}
		}
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i, true
		case c == '<':
			return 0, false
		}
		i++
	}
	return 0, false
}

func (z *Tokenizer) template() bool {
	start := z.pos
	tok, end, ok := z.ts.scan(z.src, start)
	if !ok {
		return false
	}
	z.emit(tok, start, end)
	switch {
	case tok.Type == TemplateCommentToken:
		z.formatOff(start, tok.Data)
	case tok.Type == TemplateStatementToken && strings.HasPrefix(tok.Data, "/*"):
		z.formatOff(start, tok.Data)
	default:
		if re := rawBlockEnd(tok); re != nil {
			content := z.rawBlock(re)
			if tok.Dialect == PercentComment {
				z.formatOff(start, content)
			}
		}
	}
	return true
}

// rawBlock queues the raw content following the current token and the
// construct matched by end, returning the content. Without a match the
// content is tokenized as usual.
func (z *Tokenizer) rawBlock(end *regexp.Regexp) string {
	loc := end.FindStringIndex(z.src[z.pos:])
	if loc == nil {
		return ""
	}
	start := z.pos
	content := z.src[start : start+loc[0]]
	if content != "" {
		z.enqueue(Token{Type: DataToken, Data: content}, start, start+loc[0])
	}
	closeTok, closeEnd, ok := z.ts.scan(z.src, start+loc[0])
	if !ok {
		z.queue = nil
		z.pos = start
		return ""
	}
	z.enqueue(closeTok, start+loc[0], closeEnd)
	return content
}

// formatOff turns everything from start up to the end of the next comment
// holding the format-on marker into one raw token, when text holds the
// format-off marker.
func (z *Tokenizer) formatOff(start int, text string) {
	if z.off == nil || !z.off.MatchString(text) {
		return
	}
	end := len(z.src)
	if z.on != nil {
		if loc := z.on.FindStringIndex(z.src[z.pos:]); loc != nil {
			end = closerEnd(z.src, z.pos+loc[1])
		}
	}
	z.queue = nil
	z.emit(Token{Type: RawToken, Data: z.src[start:end]}, start, end)
}
