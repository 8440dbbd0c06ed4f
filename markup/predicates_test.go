package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// first returns the first node of src matching pred in document order.
func first(t *testing.T, src string, pred func(*Node) bool) *Node {
	t.Helper()
	var found *Node
	Parse(src, Options{}).Walk(func(n *Node) bool {
		if found == nil && pred(n) {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "no matching node in %q", src)
	return found
}

func named(name string) func(*Node) bool {
	return func(n *Node) bool { return n.Name == name }
}

func data(text string) func(*Node) bool {
	return func(n *Node) bool { return n.Type == DataNode && n.Data == text }
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		src, name, want string
	}{
		{"<div></div>", "div", "block"},
		{"<span></span>", "span", "inline"},
		{"<ul><li></li></ul>", "li", "list-item"},
		{"<button></button>", "button", "inline-block"},
		{"<my-widget></my-widget>", "my-widget", "inline"},
		{"<svg:g></svg:g>", "g", "inline"},
		{"{% if a %}{% endif %}", "if", "block"},
		{"{{ x }}", "x", "inline"},
		{`{% include "a.html" %}`, "include", "block"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n := first(t, tt.src, named(tt.name))
			assert.Equal(t, tt.want, n.Display())
		})
	}
}

func TestWhitespaceSensitivity(t *testing.T) {
	tests := []struct {
		src, name       string
		ws, indentation bool
	}{
		{"<pre></pre>", "pre", true, true},
		{"<textarea></textarea>", "textarea", true, true},
		{"<script></script>", "script", true, false},
		{"<style></style>", "style", true, false},
		{"<div></div>", "div", false, false},
		{"{% raw %}{% endraw %}", "raw", true, true},
		{"{% comment %}{% endcomment %}", "comment", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n := first(t, tt.src, named(tt.name))
			assert.Equal(t, tt.ws, n.IsWhitespaceSensitive())
			assert.Equal(t, tt.indentation, n.IsIndentationSensitive())
		})
	}
}

func TestSpaceSensitivity(t *testing.T) {
	tests := []struct {
		name              string
		src               string
		pred              func(*Node) bool
		leading, trailing bool
	}{
		{"text in paragraph", "<p>a <b>x</b> c</p>", data("a"), false, true},
		{"inline between texts", "<p>a <b>x</b> c</p>", named("b"), true, true},
		{"last text in paragraph", "<p>a <b>x</b> c</p>", data("c"), true, false},
		{"text in span", "<span> a </span>", data("a"), true, true},
		{"block child", "<div> <p>x</p> </div>", named("p"), false, false},
		{"text next to block", "<div>a<p>x</p></div>", data("a"), false, false},
		{"text in display none", "<title> a </title>", data("a"), true, true},
		{"text in inline-block", "<button> a </button>", data("a"), false, false},
		{"statement after text", "<div>a{{ b }}</div>", named("b"), true, false},
		{"text in pre", "<pre> a </pre>", data(" a "), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := first(t, tt.src, tt.pred)
			assert.Equal(t, tt.leading, n.IsLeadingSpaceSensitive(), "leading")
			assert.Equal(t, tt.trailing, n.IsTrailingSpaceSensitive(), "trailing")
		})
	}
}

func TestShouldHugContent(t *testing.T) {
	assert.True(t, first(t, "<title>{{ x }}</title>", named("title")).ShouldHugContent())
	assert.False(t, first(t, "<title> {{ x }}</title>", named("title")).ShouldHugContent())
	assert.False(t, first(t, "<title>x</title>", named("title")).ShouldHugContent())
	assert.False(t, first(t, "<div>{{ x }}</div>", named("div")).ShouldHugContent())
}

func TestShouldForceBreak(t *testing.T) {
	tests := []struct {
		src, name string
		want      bool
	}{
		{"<ul><li>a</li></ul>", "ul", true},
		{"<ul></ul>", "ul", false},
		{"<table><tr><td>a</td></tr></table>", "tr", true},
		{"<table><tr><td>a</td></tr></table>", "td", false},
		{"<p>a</p>", "p", false},
		{"<body>a</body>", "body", true},
		{"<div><span><b>x</b></span></div>", "div", true},
		{"<div><span>x</span></div>", "div", false},
		{"<div>\n<span>x</span></div>", "div", true},
		{"<div>\n<span>x</span> </div>", "div", true},
		{"{% if a %}x{% endif %}", "if", true},
		{"{% raw %}x{% endraw %}", "raw", false},
	}
	for _, tt := range tests {
		t.Run(tt.src+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, first(t, tt.src, named(tt.name)).ShouldForceBreak())
		})
	}
}

func TestNeedsToBorrowPrevClosingTagEndMarker(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pred func(*Node) bool
		want bool
	}{
		{"glued text", "<b>a</b>-", data("-"), true},
		{"spaced text", "<b>a</b> -", data("-"), false},
		{"after void", "a<br>b", data("b"), true},
		{"after stray end tag", "</b>x", data("x"), true},
		{"after text", "a<b>x</b>", named("b"), false},
		{"before block", "<b>a</b><div></div>", named("div"), false},
		{"inside pre", "<pre><b>a</b>-</pre>", data("-"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, first(t, tt.src, tt.pred).NeedsToBorrowPrevClosingTagEndMarker())
		})
	}
}
