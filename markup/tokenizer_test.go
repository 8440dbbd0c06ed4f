package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func tokens(src string, opts Options) []string {
	var got []string
	z := NewTokenizer(src, opts)
	for z.Next() != EOFToken {
		got = append(got, z.Token().String())
	}
	return got
}

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "element with statement",
			src:  `<div class="a">Hi {{ name }}</div>`,
			want: []string{
				`StartTag div [class="a"]`,
				`Data Hi `,
				`TemplateStatement(curly-two) name name`,
				`EndTag div`,
			},
		},
		{
			name: "percent block with spaceless markers",
			src:  `{% if a %}x{%- endif -%}`,
			want: []string{
				`TemplateStart(percent) if [a] if a`,
				`Data x`,
				`TemplateEnd(percent) if endif {spaceless-left-dash,spaceless-right-dash}`,
			},
		},
		{
			name: "void, comment and declaration",
			src:  `<br/><!-- c --><!doctype html>`,
			want: []string{
				`SelfClosingTag br {self-closing}`,
				`Comment  c `,
				`Declaration doctype [html]`,
			},
		},
		{
			name: "slash after unquoted value",
			src:  `<img src=a/><img src="a"/><input disabled/><a href=x />`,
			want: []string{
				`StartTag img [src=a/]`,
				`SelfClosingTag img [src="a"] {self-closing}`,
				`SelfClosingTag input [disabled] {self-closing}`,
				`SelfClosingTag a [href=x] {self-closing}`,
			},
		},
		{
			name: "script content is raw",
			src:  `<script>if (a < b) { go() }</script>`,
			want: []string{
				`StartTag script`,
				`Data if (a < b) { go() }`,
				`EndTag script`,
			},
		},
		{
			name: "template comments",
			src:  `{# note #}{{!-- hb --}}`,
			want: []string{
				`TemplateComment(curly-hash)  note `,
				`TemplateComment(curly-two-bang)  hb  {safe-left,safe-right}`,
			},
		},
		{
			name: "raw block content",
			src:  `{% raw %}{{ x }}<p>{% endraw %}`,
			want: []string{
				`TemplateStart(percent) raw raw`,
				`Data {{ x }}<p>`,
				`TemplateEnd(percent) raw endraw`,
			},
		},
		{
			name: "handlebars block",
			src:  `{{#each items}}{{> row}}{{/each}}`,
			want: []string{
				`TemplateStart(curly-two-hash) each [items] each items`,
				`TemplateStatement(curly-two) row row {partial}`,
				`TemplateEnd(curly-two-hash) each each`,
			},
		},
		{
			name: "format off region",
			src:  `<!-- djlint:off --><p>  x </p><!-- djlint:on -->after`,
			want: []string{
				`Raw <!-- djlint:off --><p>  x </p><!-- djlint:on -->`,
				`Data after`,
			},
		},
		{
			name: "unterminated tag is data",
			src:  `a <div`,
			want: []string{
				`Data a `,
				`Data <div`,
			},
		},
		{
			name: "end tag with attributes",
			src:  `</p class="x">`,
			want: []string{
				`EndTag p [class="x"]`,
			},
		},
		{
			name: "quoted greater than in attribute",
			src:  `<a title="a > b" href="{{ url }}">`,
			want: []string{
				`StartTag a [title="a > b" href="{{ url }}"]`,
			},
		},
		{
			name: "custom percent block",
			src:  `{% mytag %}{% endmytag %}{% other %}`,
			want: []string{
				`TemplateStart(percent) mytag mytag`,
				`TemplateEnd(percent) mytag endmytag`,
				`TemplateStatement(percent) other other`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokens(tt.src, Options{})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizerCustomFormatMarkers(t *testing.T) {
	src := "{# fmt: off #}<p>\n x</p>{# fmt: on #}<i>y</i>"
	got := tokens(src, Options{FormatOff: "fmt:off", FormatOn: "fmt:on"})
	assert.Equal(t, []string{
		`Raw {# fmt: off #}<p>\n x</p>{# fmt: on #}`,
		`StartTag i`,
		`Data y`,
		`EndTag i`,
	}, got)
}

func TestTokenizerSpans(t *testing.T) {
	src := "<div>\n  <b>x</b>\n</div>"
	z := NewTokenizer(src, Options{})
	var spans []Span
	for z.Next() != EOFToken {
		spans = append(spans, z.Token().Span)
	}
	want := []Span{
		{Offset: 0, Line: 1, Column: 1, Length: 5},
		{Offset: 5, Line: 1, Column: 6, Length: 3},
		{Offset: 8, Line: 2, Column: 3, Length: 3},
		{Offset: 11, Line: 2, Column: 6, Length: 1},
		{Offset: 12, Line: 2, Column: 7, Length: 4},
		{Offset: 16, Line: 2, Column: 11, Length: 1},
		{Offset: 17, Line: 3, Column: 1, Length: 6},
	}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}
