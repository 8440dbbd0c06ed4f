package markup

type attrTokenType uint8

const (
	attrEOF attrTokenType = iota
	// attrText is a name, a bare value or literal text inside a value.
	attrText
	attrSpace
	attrEquals
	// attrQuote opens or closes a quoted value.
	attrQuote
	attrTemplate
)

type attrToken struct {
	typ  attrTokenType
	text string
	tmpl Token
}

// attrScanner splits the raw attribute string of a tag into tokens. In
// expression mode it splits the body of a template construct instead:
// quotes delimit string literals and template syntax is not recognized.
type attrScanner struct {
	src  string
	pos  int
	ts   *templateScanner
	expr bool
	// quote is the quote character of the open value, or 0.
	quote byte
}

func (s *attrScanner) next() attrToken {
	if s.pos >= len(s.src) {
		return attrToken{typ: attrEOF}
	}
	c := s.src[s.pos]
	if !s.expr && isTemplateStart(c) {
		if tok, end, ok := s.ts.scan(s.src, s.pos); ok {
			text := s.src[s.pos:end]
			s.pos = end
			return attrToken{typ: attrTemplate, text: text, tmpl: tok}
		}
	}
	switch {
	case isAttrSpace(c):
		start := s.pos
		for s.pos < len(s.src) && isAttrSpace(s.src[s.pos]) {
			s.pos++
		}
		return attrToken{typ: attrSpace, text: s.src[start:s.pos]}
	case c == '=' && s.quote == 0 && !s.expr:
		s.pos++
		return attrToken{typ: attrEquals, text: "="}
	case (c == '"' || c == '\'') && (s.quote == 0 || s.quote == c):
		if s.quote == 0 {
			s.quote = c
		} else {
			s.quote = 0
		}
		s.pos++
		return attrToken{typ: attrQuote, text: string(c)}
	}

	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isAttrSpace(c) || c == '"' || c == '\'' ||
			!s.expr && isTemplateStart(c) ||
			c == '=' && s.quote == 0 && !s.expr {
			break
		}
		s.pos++
	}
	return attrToken{typ: attrText, text: s.src[start:s.pos]}
}

func isTemplateStart(b byte) bool {
	return b == '{' || b == '\\' || b == '@'
}

func isAttrSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
