package djlint

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		cfg  Config
		want string
	}{
		{
			name: "defaults",
			text: "<div><p>nice stuff here</p></div>",
			cfg:  DefaultConfig(),
			want: "<div>\n    <p>nice stuff here</p>\n</div>\n",
		},
		{
			name: "zero config",
			text: "<div><p>nice stuff here</p></div>",
			want: "<div>\n    <p>nice stuff here</p>\n</div>\n",
		},
		{
			name: "indent",
			text: "<ul><li>a</li></ul>",
			cfg:  Config{Indent: 2},
			want: "<ul>\n  <li>a</li>\n</ul>\n",
		},
		{
			name: "custom block",
			text: "{% cache 10 %}x{% endcache %}{% mine %}y",
			cfg:  Config{CustomBlocks: []string{"mine"}},
			want: "{% cache 10 %}\n    x\n{% endcache %}\n{% mine %}\n    y\n",
		},
		{
			name: "custom format markers",
			text: "<div><!-- keep --><p>  x</p><!-- /keep --></div>",
			cfg:  Config{FormatOff: "keep", FormatOn: "/keep"},
			want: "<div>\n    <!-- keep --><p>  x</p><!-- /keep -->\n</div>\n",
		},
		{
			name: "empty",
			text: "",
			want: "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Format(tt.text, tt.cfg)); diff != "" {
				t.Errorf("Format mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestFormatterFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.html":                "",
		"b.txt":                 "",
		"sub/c.html":            "",
		".git/d.html":           "",
		"node_modules/e.html":   "",
		"sub/skip.min.html":     "",
		"sub/deeper/f.html":     "",
		"sub/deeper/g.jinja":    "",
		"explicit/notes.txt":    "",
		"explicit/ignored.html": "",
	})

	f := &Formatter{Config: Config{Exclude: []string{"node_modules", "*.min.html"}}}
	got, err := f.Files([]string{dir, filepath.Join(dir, "explicit", "notes.txt")})
	require.NoError(t, err)

	for i := range got {
		got[i], _ = filepath.Rel(dir, got[i])
		got[i] = filepath.ToSlash(got[i])
	}
	want := []string{
		"a.html",
		"explicit/ignored.html",
		"sub/c.html",
		"sub/deeper/f.html",
		"explicit/notes.txt",
	}
	assert.Equal(t, want, got)

	_, err = f.Files([]string{filepath.Join(dir, "missing")})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFormatterFormatFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.html": "<div><p>x</p></div>\n",
		"b.html": "<div>\n    <p>x</p>\n</div>\n",
	})
	a, b := filepath.Join(dir, "a.html"), filepath.Join(dir, "b.html")

	f := &Formatter{Concurrency: 2}
	results, err := f.FormatFiles(context.Background(), []string{a, b, filepath.Join(dir, "c.html")})
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Len(t, results, 2)

	assert.Equal(t, a, results[0].Path)
	assert.True(t, results[0].Changed())
	assert.Equal(t, "<div>\n    <p>x</p>\n</div>\n", results[0].Formatted)
	diff := results[0].Diff()
	assert.Contains(t, diff, "-<div><p>x</p></div>")
	assert.Contains(t, diff, "+    <p>x</p>")

	assert.Equal(t, b, results[1].Path)
	assert.False(t, results[1].Changed())
	assert.Empty(t, results[1].Diff())

	assert.ErrorIs(t, Check(results), ErrChanged)
	assert.NoError(t, Check(results[1:]))

	// check mode leaves files alone
	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "<div><p>x</p></div>\n", string(data))
}

func TestFormatterReformat(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.html": "<ul><li>a</li></ul>"})
	a := filepath.Join(dir, "a.html")

	f := &Formatter{Reformat: true}
	r, err := f.FormatFile(a)
	require.NoError(t, err)
	assert.True(t, r.Changed())

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n    <li>a</li>\n</ul>\n", string(data))

	// the second run has nothing to do
	r, err = f.FormatFile(a)
	require.NoError(t, err)
	assert.False(t, r.Changed())
}

func TestFormatterCanceled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.html": "<p>x</p>"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Formatter{}
	_, err := f.FormatFiles(ctx, []string{filepath.Join(dir, "a.html")})
	assert.ErrorIs(t, err, context.Canceled)
}
