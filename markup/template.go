package markup

import (
	"regexp"
	"strings"
	"unicode"
)

// Dialect identifies a template delimiter family.
type Dialect uint8

const (
	NoDialect      Dialect = iota
	Percent                // {% x %}
	PercentComment         // {% comment %}…{% endcomment %}
	CurlyTwo               // {{ x }}
	CurlyThree             // {{{ x }}}
	CurlyFour              // {{{{raw}}}}…{{{{/raw}}}}
	CurlyTwoHash           // {{#x}}…{{/x}}
	CurlyTwoBang           // {{! x }} and {{!-- x --}}
	SlashCurlyTwo          // \{{ x }}
	CurlyHash              // {# x #}
	AtStar                 // @* x *@
)

type delimiters struct {
	open     string
	sigil    string // printed after the left spaceless marker of an opening construct
	endSigil string // printed after the left spaceless marker of a closing construct
	close    string
}

var dialects = [...]struct {
	name string
	delimiters
}{
	NoDialect:      {"", delimiters{}},
	Percent:        {"percent", delimiters{"{%", "", "", "%}"}},
	PercentComment: {"percent-comment", delimiters{"{%", "", "", "%}"}},
	CurlyTwo:       {"curly-two", delimiters{"{{", "", "", "}}"}},
	CurlyThree:     {"curly-three", delimiters{"{{{", "", "", "}}}"}},
	CurlyFour:      {"curly-four", delimiters{"{{{{", "", "/", "}}}}"}},
	CurlyTwoHash:   {"curly-two-hash", delimiters{"{{", "#", "/", "}}"}},
	CurlyTwoBang:   {"curly-two-bang", delimiters{"{{", "!", "", "}}"}},
	SlashCurlyTwo:  {"slash-curly-two", delimiters{`\{{`, "", "", "}}"}},
	CurlyHash:      {"curly-hash", delimiters{"{#", "", "", "#}"}},
	AtStar:         {"at-star", delimiters{"@*", "", "", "*@"}},
}

func (d Dialect) String() string {
	if int(d) < len(dialects) {
		return dialects[d].name
	}
	return "invalid"
}

func (d Dialect) delims() delimiters {
	return dialects[d].delimiters
}

// Handlebars reports whether constructs of d only appear in handlebars
// templates. Meeting one switches an unpinned profile to handlebars.
func (d Dialect) Handlebars() bool {
	switch d {
	case CurlyThree, CurlyFour, CurlyTwoHash, CurlyTwoBang, SlashCurlyTwo:
		return true
	}
	return false
}

// percentBlocks are the percent constructs that always open a block.
var percentBlocks = map[string]bool{
	"autoescape": true, "block": true, "blocktrans": true, "blocktranslate": true,
	"cache": true, "call": true, "capture": true, "comment": true, "embed": true,
	"filter": true, "for": true, "form": true, "if": true, "ifchanged": true,
	"ifequal": true, "ifnotequal": true, "macro": true, "paginate": true,
	"raw": true, "spaceless": true, "tablerow": true, "unless": true,
	"verbatim": true, "while": true, "with": true,
}

// branchNames are the template keywords that end one branch of a block and
// start the next.
var branchNames = map[string]bool{
	"else": true, "elif": true, "elseif": true, "empty": true, "plural": true,
	"^": true,
}

// blockLikeStatements sit on their own line even though they open no block.
var blockLikeStatements = map[string]bool{
	"extends": true, "load": true, "include": true, "import": true, "from": true,
}

var endTagRe = regexp.MustCompile(`\{%[-+~]?\s*end(\w+)`)

// templateScanner recognizes template constructs. It is shared by the
// document tokenizer and the attribute scanner.
type templateScanner struct {
	blocks map[string]bool
}

func newTemplateScanner(src string, custom []string) *templateScanner {
	ts := &templateScanner{blocks: make(map[string]bool, len(percentBlocks))}
	for name := range percentBlocks {
		ts.blocks[name] = true
	}
	for _, name := range custom {
		ts.blocks[name] = true
	}
	for _, m := range endTagRe.FindAllStringSubmatch(src, -1) {
		ts.blocks[m[1]] = true
	}
	return ts
}

// scan recognizes a template construct at src[i:] and returns it with the
// offset just past it. Unknown and unterminated constructs are not
// recognized.
func (ts *templateScanner) scan(src string, i int) (tok Token, end int, ok bool) {
	rest := src[i:]
	var open int
	switch {
	case strings.HasPrefix(rest, `\{{`):
		tok.Dialect, open = SlashCurlyTwo, 3
	case strings.HasPrefix(rest, "{{{{"):
		tok.Dialect, open = CurlyFour, 4
	case strings.HasPrefix(rest, "{{{"):
		tok.Dialect, open = CurlyThree, 3
	case strings.HasPrefix(rest, "{{"):
		tok.Dialect, open = CurlyTwo, 2
	case strings.HasPrefix(rest, "{%"):
		tok.Dialect, open = Percent, 2
	case strings.HasPrefix(rest, "{#"):
		tok.Dialect, open = CurlyHash, 2
	case strings.HasPrefix(rest, "@*"):
		tok.Dialect, open = AtStar, 2
	default:
		return tok, 0, false
	}

	j := open
	if tok.Dialect != CurlyHash && tok.Dialect != AtStar && j < len(rest) {
		switch rest[j] {
		case '-':
			tok.Props |= PropSpacelessLeftDash
			j++
		case '~':
			tok.Props |= PropSpacelessLeftTilde
			j++
		case '+':
			tok.Props |= PropSpacelessLeftPlus
			j++
		}
	}

	tok.Type = TemplateStatementToken
	closer := tok.Dialect.delims().close
	switch tok.Dialect {
	case CurlyTwo:
		switch {
		case strings.HasPrefix(rest[j:], "!--"):
			tok.Dialect, tok.Type = CurlyTwoBang, TemplateCommentToken
			tok.Props |= PropSafeLeft | PropSafeRight
			j += 3
			closer = "--}}"
		case strings.HasPrefix(rest[j:], "!"):
			tok.Dialect, tok.Type = CurlyTwoBang, TemplateCommentToken
			j++
		case strings.HasPrefix(rest[j:], "#"):
			tok.Dialect, tok.Type = CurlyTwoHash, TemplateStartToken
			j++
		case strings.HasPrefix(rest[j:], "/") && !strings.HasPrefix(rest[j:], "/*"):
			tok.Dialect, tok.Type = CurlyTwoHash, TemplateEndToken
			j++
		case strings.HasPrefix(rest[j:], ">"):
			tok.Props |= PropPartial
			j++
		}
	case CurlyFour:
		tok.Type = TemplateStartToken
		if strings.HasPrefix(rest[j:], "/") {
			tok.Type = TemplateEndToken
			j++
		}
	case CurlyHash, AtStar:
		tok.Type = TemplateCommentToken
	}

	k := strings.Index(rest[j:], closer)
	if k < 0 {
		return tok, 0, false
	}
	inner := rest[j : j+k]
	end = i + j + k + len(closer)

	if tok.Type == TemplateCommentToken {
		tok.Data = inner
		return tok, end, true
	}

	if n := len(inner); n > 0 {
		switch inner[n-1] {
		case '-':
			tok.Props |= PropSpacelessRightDash
			inner = inner[:n-1]
		case '~':
			tok.Props |= PropSpacelessRightTilde
			inner = inner[:n-1]
		case '+':
			tok.Props |= PropSpacelessRightPlus
			inner = inner[:n-1]
		}
	}
	tok.Data = strings.TrimSpace(inner)
	tok.Name, tok.Attr = splitName(tok.Data)

	if tok.Dialect == Percent {
		switch {
		case tok.Name == "comment":
			tok.Dialect, tok.Type = PercentComment, TemplateStartToken
		case tok.Name == "endcomment":
			tok.Dialect, tok.Type, tok.Name = PercentComment, TemplateEndToken, "comment"
		case len(tok.Name) > 3 && strings.HasPrefix(tok.Name, "end"):
			tok.Type, tok.Name = TemplateEndToken, tok.Name[3:]
		case ts.blocks[tok.Name]:
			tok.Type = TemplateStartToken
		}
	}
	return tok, end, true
}

// splitName splits a construct body at its first whitespace.
func splitName(s string) (name, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// rawBlockEnd returns a pattern matching the construct that closes the raw
// content of tok, or nil when tok has no raw content.
func rawBlockEnd(tok Token) *regexp.Regexp {
	if tok.Type != TemplateStartToken {
		return nil
	}
	name := regexp.QuoteMeta(tok.Name)
	switch {
	case tok.Dialect == PercentComment,
		tok.Dialect == Percent && (tok.Name == "raw" || tok.Name == "verbatim"):
		return regexp.MustCompile(`\{%[-+~]?\s*end` + name + `\s*[-+~]?%\}`)
	case tok.Dialect == CurlyFour:
		return regexp.MustCompile(`\{\{\{\{/` + name + `\}\}\}\}`)
	}
	return nil
}

// markerPattern builds a pattern for a format marker such as "djlint:off",
// tolerating whitespace after the colon.
func markerPattern(marker string) *regexp.Regexp {
	if marker == "" {
		return nil
	}
	parts := strings.Split(marker, ":")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(strings.Join(parts, `:\s*`))
}

var commentClosers = []string{"-->", "#}", "}}", "*@", "%}"}

// closerEnd returns the offset just past the first comment closer at or
// after i, or len(src).
func closerEnd(src string, i int) int {
	end := len(src)
	for _, c := range commentClosers {
		if k := strings.Index(src[i:], c); k >= 0 && i+k+len(c) < end {
			end = i + k + len(c)
		}
	}
	return end
}
