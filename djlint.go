// Package djlint formats HTML templates.
//
// Format is the single entry point of the formatter core. Formatter runs it
// over files, and Server exposes it over HTTP and websocket to editors.
package djlint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"github.com/youpiyoful/djLint/markup"
)

// ErrChanged is returned by Check when at least one file would be
// reformatted.
var ErrChanged = errors.New("files would be reformatted")

// Format returns text laid out according to cfg. Zero fields of cfg take
// their default values. Format never fails: malformed markup is kept as
// text.
func Format(text string, cfg Config) string {
	cfg = cfg.withDefaults()
	return markup.Parse(text, cfg.ParseOptions()).Format(cfg.Indent, cfg.MaxLineLength)
}

// Result is the outcome of formatting one file.
type Result struct {
	Path      string
	Original  string
	Formatted string
}

// Changed reports whether formatting changed the content.
func (r Result) Changed() bool {
	return r.Original != r.Formatted
}

// Diff returns a unified diff from the original to the formatted content,
// or the empty string if nothing changed.
func (r Result) Diff() string {
	if !r.Changed() {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.Original),
		B:        difflib.SplitLines(r.Formatted),
		FromFile: r.Path,
		ToFile:   r.Path,
		Context:  3,
	})
	return diff
}

// Check returns ErrChanged if any of results changed.
func Check(results []Result) error {
	n := 0
	for _, r := range results {
		if r.Changed() {
			n++
		}
	}
	if n > 0 {
		return fmt.Errorf("%d file(s): %w", n, ErrChanged)
	}
	return nil
}

// Formatter formats files.
type Formatter struct {
	// Config is cloned for each file.
	Config Config

	// Reformat writes changed files back in place.
	Reformat bool

	// Concurrency limits the number of files processed at once. It
	// defaults to the number of CPUs.
	Concurrency int

	// Logger configures logging for internal events.
	Logger *slog.Logger
}

func (f *Formatter) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FormatFile formats the file at path.
func (f *Formatter) FormatFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	r := Result{
		Path:      path,
		Original:  string(data),
		Formatted: Format(string(data), f.Config.Clone()),
	}

	f.logger().Debug("Format file", "path", path, "changed", r.Changed())

	if f.Reformat && r.Changed() {
		if err := writeFile(path, r.Formatted); err != nil {
			return r, err
		}
		f.logger().Info("Reformat file", "path", path)
	}
	return r, nil
}

// FormatFiles formats the files at paths concurrently. The results keep
// the order of paths. Files that fail are left out of the results and their
// errors are joined.
func (f *Formatter) FormatFiles(ctx context.Context, paths []string) ([]Result, error) {
	limit := f.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]Result, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = f.FormatFile(p)
			if errs[i] != nil {
				f.logger().Error("Format file", "path", p, "error", errs[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ok := results[:0]
	for i, r := range results {
		if errs[i] == nil {
			ok = append(ok, r)
		}
	}
	return ok, errors.Join(errs...)
}

// Files expands paths into the list of files to format. Directories are
// walked for files with the configured extension, skipping hidden
// directories and paths matching an exclude pattern. Files named
// explicitly are always kept.
func (f *Formatter) Files(paths []string) ([]string, error) {
	cfg := f.Config.withDefaults()
	ext := "." + strings.TrimPrefix(cfg.Extension, ".")

	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != root && excluded(p, d.Name(), cfg.Exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && filepath.Ext(p) == ext {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return files, nil
}

func excluded(path, name string, patterns []string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	slashed := filepath.ToSlash(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, slashed); ok {
			return true
		}
	}
	return false
}

// writeFile replaces the content of path, keeping its permissions.
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
