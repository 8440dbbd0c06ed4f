// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserHTML(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "simple element with attribute",
			text: `<p class="bold">Test</p>`,
			want: `
			| <p>
			|   class="bold"
			|   "Test"
			`,
		},
		{
			name: "li auto-closed",
			text: "<ul><li>ABC<li>DEF</ul>",
			want: `
			| <ul>
			|   <li>
			|     "ABC"
			|   <li>
			|     "DEF"
			`,
		},
		{
			name: "paragraph closed by block",
			text: "<p>a<div>b</div>",
			want: `
			| <p>
			|   "a"
			| <div>
			|   "b"
			`,
		},
		{
			name: "table parts auto-closed",
			text: "<table><tr><td>1<td>2</table>",
			want: `
			| <table>
			|   <tr>
			|     <td>
			|       "1"
			|     <td>
			|       "2"
			`,
		},
		{
			name: "void elements",
			text: `Test<br>tesT<input type="text" disabled>`,
			want: `
			| "Test"
			| <br>
			| "tesT"
			| <input>
			|   type="text"
			|   disabled
			`,
		},
		{
			name: "stray end tag",
			text: "</span>x",
			want: `
			| </span>
			| "x"
			`,
		},
		{
			name: "namespaced element",
			text: `<svg:rect width="1"/>`,
			want: `
			| <svg rect>
			|   width="1"
			`,
		},
		{
			name: "doctype and comment",
			text: "<!doctype html><!-- note -->",
			want: `
			| <!DOCTYPE html>
			| <!-- note -->
			`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := testParseCase(tt.text, removeIndent(tt.want), Options{}); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestParserTemplates(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{
			name: "branches",
			text: "{% if a %}x{% elif b %}y{% else %}z{% endif %}",
			want: `
			| {% if a %}
			|   "x"
			| {% elif b %}
			|   "y"
			| {% else %}
			|   "z"
			| {% endif %}
			`,
		},
		{
			name: "end closes open elements",
			text: "{% if a %}<b>x{% endif %}y",
			want: `
			| {% if a %}
			|   <b>
			|     "x"
			| {% endif %}
			| "y"
			`,
		},
		{
			name: "nested blocks",
			text: "{% for i in l %}{% if i %}{{ i }}{% endif %}{% endfor %}",
			want: `
			| {% for i in l %}
			|   {% if i %}
			|     {{ i }}
			|   {% endif %}
			| {% endfor %}
			`,
		},
		{
			name: "handlebars",
			text: "{{#each items}}{{this}}{{else}}none{{/each}}",
			want: `
			| {{#each items}}
			|   {{this}}
			| {{else}}
			|   "none"
			| {{/each}}
			`,
		},
		{
			name: "raw block",
			text: "{% raw %}{% if %}<p>{% endraw %}",
			want: `
			| {% raw %}
			|   "{% if %}<p>"
			| {% endraw %}
			`,
		},
		{
			name: "statements stay leaves",
			text: `{% extends "base.html" %}{% include "x.html" %}`,
			want: `
			| {% extends "base.html" %}
			| {% include "x.html" %}
			`,
		},
		{
			name: "unmatched end",
			text: "a{% endif %}",
			want: `
			| "a"
			| {% endif %}
			`,
		},
		{
			name: "format off",
			text: "<!-- djlint:off --><p>  x</p><!-- djlint:on --><b>y</b>",
			want: `
			| raw "<!-- djlint:off --><p>  x</p><!-- djlint:on -->"
			| <b>
			|   "y"
			`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := testParseCase(tt.text, removeIndent(tt.want), Options{}); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestParsePreformatted(t *testing.T) {
	tree := Parse("<pre>  a\n b <i> c </i></pre>", Options{})
	pre := tree.Root().FirstChild()
	require.Equal(t, "pre", pre.Name)
	cs := pre.Children()
	require.Len(t, cs, 2)
	assert.Equal(t, "  a\n b ", cs[0].Data)
	assert.Equal(t, " c ", cs[1].FirstChild().Data)
	assert.Zero(t, cs[1].Props)
}

func TestParseWhitespaceProps(t *testing.T) {
	tree := Parse("<p> a\n<b>x</b></p><span> </span>", Options{})
	p := tree.Root().FirstChild()
	a, b := p.FirstChild(), p.LastChild()

	assert.Equal(t, "a", a.Data)
	assert.True(t, a.Props.Has(PropLeadingSpace))
	assert.False(t, a.Props.Has(PropLeadingBreak))
	assert.True(t, a.Props.Has(PropTrailingSpace|PropTrailingBreak))
	assert.True(t, b.Props.Has(PropLeadingSpace|PropLeadingBreak))
	assert.False(t, b.Props.Has(PropTrailingSpace))
	assert.True(t, b.Closed)

	span := p.NextSibling()
	assert.Equal(t, "span", span.Name)
	assert.True(t, span.Props.Has(PropDanglingSpace))
	assert.False(t, span.HasChildren())
}

func TestParseMergesData(t *testing.T) {
	tree := Parse("a  @b {{ c", Options{})
	cs := tree.Root().Children()
	require.Len(t, cs, 1)
	assert.Equal(t, "a @b {{ c", cs[0].Data)
}

func TestTreeContext(t *testing.T) {
	tests := []struct {
		name, profile, text, want string
	}{
		{"default", "", "{{ x }}", ProfileAll},
		{"detected", "", "{% if a %}{% endif %}{{#if a}}{{/if}}", ProfileHandlebars},
		{"pinned", ProfileDjango, "{{#if a}}{{/if}}", ProfileDjango},
		{"all is not pinned", ProfileAll, "{{{ x }}}", ProfileHandlebars},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(tt.text, Options{Profile: tt.profile})
			assert.Equal(t, tt.want, tree.Context().Profile())
		})
	}
}

func TestTreeWalk(t *testing.T) {
	tree := Parse("<div><p>a</p>b</div>c", Options{})
	var got []string
	tree.Walk(func(n *Node) bool {
		got = append(got, n.Type.String()+":"+n.Name+n.Data)
		return n.Name != "p"
	})
	assert.Equal(t, []string{"element:div", "element:p", "data:b", "data:c"}, got)

	div := tree.Root().FirstChild()
	b, c := div.LastChild(), div.NextSibling()
	assert.Equal(t, "p", b.Prev().Name)
	assert.Equal(t, div, c.Prev())
	assert.Equal(t, c, div.Next())
}

// removeIndent measures the indentation of the first line and removes that
// amount of leading whitespace from all lines.
// The very first \n is also removed.
func removeIndent(s string) string {
	s = strings.TrimLeft(s, "\n") // ignore leading newline

	// find first non-whitespace character
	i := strings.IndexFunc(s, func(r rune) bool {
		return r != ' ' && r != '\t'
	})
	if i == -1 {
		return s
	}

	// remove that amount of leading whitespace from all lines
	lines := strings.Split(s, "\n")
	for j, line := range lines {
		if len(line) >= i {
			lines[j] = line[i:]
		}
	}
	return strings.Join(lines, "\n")
}

// testParseCase parses text and compares the dump of the tree with want.
// If the test does not pass, it returns an error that explains the failure.
func testParseCase(text, want string, opts Options) error {
	tree := Parse(text, opts)
	if err := checkTreeConsistency(tree); err != nil {
		return err
	}
	if got := tree.String(); got != want {
		return fmt.Errorf("got vs want:\n----\n%s----\n%s----", got, want)
	}
	return nil
}

// checkTreeConsistency checks that the parent and child links of every
// node agree.
func checkTreeConsistency(tree *Tree) error {
	for id := 0; id < tree.Len(); id++ {
		n := tree.Node(id)
		if n.ID() != id {
			return fmt.Errorf("node %d has id %d", id, n.ID())
		}
		for i, c := range n.Children() {
			if c.Parent() != n {
				return fmt.Errorf("inconsistent child/parent relationship: %d/%d", c.ID(), n.ID())
			}
			if c.index != i {
				return fmt.Errorf("node %d has index %d, want %d", c.ID(), c.index, i)
			}
		}
		if id > 0 && n.Parent() == nil {
			return errors.New("detached node")
		}
	}
	return nil
}
