package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youpiyoful/djLint/markup"
)

type found struct {
	Code  string
	Pos   string
	Match string
}

func lintCodes(t *testing.T, l *Linter, src string) []found {
	t.Helper()
	var got []found
	for _, v := range l.Lint("", src) {
		got = append(got, found{v.Code, v.Source.Span.String(), v.Match})
	}
	return got
}

func TestLintDefaultRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []found
	}{
		{
			name: "html and img",
			src:  `<html><img src="a.png"></html>`,
			want: []found{
				{"H005", "1:1", "<html>"},
				{"H006", "1:7", `<img src="a.png">`},
				{"H013", "1:7", `<img src="a.png">`},
			},
		},
		{
			name: "complete img",
			src:  `<img src="a.png" alt="" width="1" height="1">`,
		},
		{
			name: "empty pair",
			src:  "<div></div>\n<td></td>",
			want: []found{{"H020", "1:1", "<div>"}},
		},
		{
			name: "empty class",
			src:  `<div class="">x</div>`,
			want: []found{{"H026", "1:1", `<div class="">`}},
		},
		{
			name: "inline style",
			src:  `<p style="color: red">x</p>`,
			want: []found{{"H021", "1:1", `<p style="color: red">`}},
		},
		{
			name: "orphan tag",
			src:  "<p>x</p>\n</span>",
			want: []found{{"H025", "2:1", "</span>"}},
		},
		{
			name: "form method",
			src:  `<form method="POST">x</form>`,
			want: []found{{"H029", "1:1", `<form method="POST">`}},
		},
		{
			name: "variable spacing",
			src:  "<p>{{x}} {{ y }} {{ z}}</p>",
			want: []found{
				{"T001", "1:4", "{{x}}"},
				{"T001", "1:18", "{{ z}}"},
			},
		},
		{
			name: "single quoted extends",
			src:  "{% extends 'base.html' %}",
			want: []found{{"T002", "1:1", "{% extends 'base.html'"}},
		},
		{
			name: "endblock without name",
			src:  "{% block a %}x{% endblock %}{% block b %}y{% endblock b %}",
			want: []found{{"T003", "1:15", "{% endblock %}"}},
		},
		{
			name: "format off region",
			src:  "<!-- djlint:off -->{% extends 'a' %}<div></div><!-- djlint:on -->",
		},
	}
	l := &Linter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, lintCodes(t, l, tt.src)); diff != "" {
				t.Errorf("violations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLintProfiles(t *testing.T) {
	// handlebars templates are not held to the variable spacing rule
	l := &Linter{Options: markup.Options{Profile: markup.ProfileHandlebars}}
	assert.Empty(t, lintCodes(t, l, "<p>{{x}}</p>"))
}

func TestLintCustomRules(t *testing.T) {
	rules, err := ParseRules([]byte(`
- code: C001
  message: Loud bold text.
  when: Name == "b"
  patterns: ['class="loud"']
- code: C002
  message: Lorem ipsum left in.
  patterns: ['(?i)lorem\s+ipsum']
`))
	require.NoError(t, err)

	l := &Linter{Rules: rules}
	got := lintCodes(t, l, "<b class=\"loud\">x</b><b>Lorem  ipsum</b>")
	assert.Equal(t, []found{
		{"C001", "1:1", `<b class="loud">`},
		{"C002", "1:25", "Lorem  ipsum"},
	}, got)
}

func TestViolationContext(t *testing.T) {
	src := `<div><p>x</p><img src=a><span>y</span><i>z</i><b>w</b></div>`
	var v *Violation
	for _, c := range (&Linter{}).Lint("a.html", src) {
		if c.Code == "H013" {
			v = c
		}
	}
	require.NotNil(t, v)
	assert.Equal(t, "a.html:1:14: H013 Img tag should have an alt attribute.", v.Error())
	assert.Equal(t, `<div><p>x</p><img src="a"/><span>y</span><i>z</i>...</div>`, v.HTMLContext())
}

func TestParseRulesErrors(t *testing.T) {
	tests := []struct {
		name, yaml string
	}{
		{"no condition", "- code: X1\n  message: m\n"},
		{"no code", "- message: m\n  when: Name == \"a\"\n"},
		{"bad condition", "- code: X1\n  message: m\n  when: Name ==\n"},
		{"condition not bool", "- code: X1\n  message: m\n  when: Name\n"},
		{"bad pattern", "- code: X1\n  message: m\n  patterns: ['(']\n"},
		{"not a list", "code: X1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestLoadRules(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(p, []byte("- code: H013\n  message: Alt please.\n  when: Name == \"img\" && !(\"alt\" in Attrs)\n"), 0o644))

	extra, err := LoadRules(p)
	require.NoError(t, err)

	rules := Merge(DefaultRules(), extra)
	assert.Len(t, rules, len(DefaultRules()))

	vs := (&Linter{Rules: rules}).Lint("", `<img src=a width=1 height=1>`)
	require.Len(t, vs, 1)
	assert.Equal(t, "Alt please.", vs[0].Message)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
