package markup

import "strings"

// A TokenType is the type of a Token.
type TokenType uint8

const (
	// EOFToken means the end of the input.
	EOFToken TokenType = iota
	// DataToken means a run of literal text.
	DataToken
	// StartTagToken looks like <a>.
	StartTagToken
	// EndTagToken looks like </a>.
	EndTagToken
	// SelfClosingTagToken looks like <br/>.
	SelfClosingTagToken
	// CommentToken looks like <!--x-->.
	CommentToken
	// DeclarationToken looks like <!DOCTYPE x>.
	DeclarationToken
	// RawToken is text that is printed as is: format-off regions, CDATA
	// sections and processing instructions.
	RawToken
	// TemplateStartToken opens a template block, like {% if x %} or {{#each}}.
	TemplateStartToken
	// TemplateEndToken closes a template block, like {% endif %} or {{/each}}.
	TemplateEndToken
	// TemplateStatementToken is a standalone template construct, like {{ x }}.
	TemplateStatementToken
	// TemplateCommentToken is a template comment, like {# x #}.
	TemplateCommentToken
)

func (t TokenType) String() string {
	switch t {
	case EOFToken:
		return "EOF"
	case DataToken:
		return "Data"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case SelfClosingTagToken:
		return "SelfClosingTag"
	case CommentToken:
		return "Comment"
	case DeclarationToken:
		return "Declaration"
	case RawToken:
		return "Raw"
	case TemplateStartToken:
		return "TemplateStart"
	case TemplateEndToken:
		return "TemplateEnd"
	case TemplateStatementToken:
		return "TemplateStatement"
	case TemplateCommentToken:
		return "TemplateComment"
	}
	return "Invalid"
}

// Props are the properties the scanner detects around a construct.
type Props uint16

const (
	PropTrailingSpace Props = 1 << iota
	PropTrailingBreak
	PropLeadingSpace
	PropLeadingBreak
	PropDanglingSpace
	PropSpacelessLeftDash
	PropSpacelessLeftTilde
	PropSpacelessLeftPlus
	PropSpacelessRightDash
	PropSpacelessRightTilde
	PropSpacelessRightPlus
	PropSafeLeft
	PropSafeRight
	PropPartial
	PropSelfClosing
)

var propNames = []string{
	"trailing-space", "trailing-break", "leading-space", "leading-break", "dangling-space",
	"spaceless-left-dash", "spaceless-left-tilde", "spaceless-left-plus",
	"spaceless-right-dash", "spaceless-right-tilde", "spaceless-right-plus",
	"safe-left", "safe-right", "partial", "self-closing",
}

// Has reports whether all of q are set.
func (p Props) Has(q Props) bool { return p&q == q }

func (p Props) String() string {
	var names []string
	for i, name := range propNames {
		if p&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

func (p Props) leftMarker() string {
	switch {
	case p.Has(PropSpacelessLeftDash):
		return "-"
	case p.Has(PropSpacelessLeftTilde):
		return "~"
	case p.Has(PropSpacelessLeftPlus):
		return "+"
	}
	return ""
}

func (p Props) rightMarker() string {
	switch {
	case p.Has(PropSpacelessRightDash):
		return "-"
	case p.Has(PropSpacelessRightTilde):
		return "~"
	case p.Has(PropSpacelessRightPlus):
		return "+"
	}
	return ""
}

// A Token consists of a TokenType and the classified parts of one construct.
type Token struct {
	Type    TokenType
	Dialect Dialect
	// Name is the tag name, the template keyword (without the "end" prefix
	// of a closing percent block) or the declaration keyword.
	Name string
	// Attr is the raw text after the name: tag attributes or template
	// arguments.
	Attr string
	// Data is the text of data, comment and raw tokens.
	Data  string
	Props Props
	Span  Span
}

func (t Token) String() string {
	var sb strings.Builder
	sb.WriteString(t.Type.String())
	if t.Dialect != NoDialect {
		sb.WriteByte('(')
		sb.WriteString(t.Dialect.String())
		sb.WriteByte(')')
	}
	if t.Name != "" {
		sb.WriteString(" " + t.Name)
	}
	if t.Attr != "" {
		sb.WriteString(" [" + t.Attr + "]")
	}
	if t.Data != "" {
		sb.WriteString(" " + strings.ReplaceAll(t.Data, "\n", `\n`))
	}
	if t.Props != 0 {
		sb.WriteString(" {" + t.Props.String() + "}")
	}
	return sb.String()
}
