// Package lint reports problems in HTML templates.
//
// Rules come from yaml: a rule either holds a condition evaluated against
// every node of the parsed tree, or regular expressions matched against the
// source text. Format-off regions are never reported.
package lint

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/beevik/etree"
	"github.com/expr-lang/expr"

	"github.com/youpiyoful/djLint/markup"
)

// A Violation is one problem found by a rule.
type Violation struct {
	Code    string
	Message string
	Source  markup.Source
	// Match is the source text the rule reported.
	Match string

	doc *etree.Element
}

func (v *Violation) Error() string {
	return v.Source.String() + ": " + v.Code + " " + v.Message
}

// HTMLContext returns the markup around the violation: the reported node
// with up to two siblings on each side, inside its parent element.
func (v *Violation) HTMLContext() string {
	if v.doc == nil {
		return ""
	}
	return renderContext(v.doc)
}

// Linter checks sources against a set of rules.
type Linter struct {
	// Rules to check. When nil, DefaultRules are used.
	Rules []*Rule

	// Options configure the parsing of sources.
	Options markup.Options

	// Logger configures logging for internal events.
	Logger *slog.Logger
}

func (l *Linter) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LintFile checks the file at path.
func (l *Linter) LintFile(path string) ([]*Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.Lint(path, string(data)), nil
}

// Lint checks src. file names the source in the reported positions and
// may be empty. The violations are sorted by position.
func (l *Linter) Lint(file, src string) []*Violation {
	rules := l.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	tree := markup.Parse(src, l.Options)
	profile := tree.Context().Profile()
	pos := markup.NewPositions(src)

	var nodes []*markup.Node
	var raw []markup.Span
	tree.Walk(func(n *markup.Node) bool {
		if n.Type == markup.RawNode {
			raw = append(raw, n.Span)
		}
		nodes = append(nodes, n)
		return true
	})

	var vs []*Violation
	for _, r := range rules {
		if !r.appliesTo(profile) {
			continue
		}
		if r.when != nil {
			vs = append(vs, l.checkNodes(r, nodes, file, src)...)
			continue
		}
		for _, re := range r.patterns {
			for _, m := range re.FindAllStringIndex(src, -1) {
				if inSpans(raw, m[0]) {
					continue
				}
				v := &Violation{
					Code:    r.Code,
					Message: r.Message,
					Source:  markup.Source{File: file, Span: pos.Span(m[0], m[1])},
					Match:   src[m[0]:m[1]],
				}
				if n := nodeAt(nodes, m[0]); n != nil {
					v.doc = buildContext(n)
				}
				vs = append(vs, v)
			}
		}
	}

	slices.SortStableFunc(vs, func(a, b *Violation) int {
		if c := cmp.Compare(a.Source.Span.Offset, b.Source.Span.Offset); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return slices.CompactFunc(vs, func(a, b *Violation) bool {
		return a.Code == b.Code && a.Source.Span.Offset == b.Source.Span.Offset
	})
}

func (l *Linter) checkNodes(r *Rule, nodes []*markup.Node, file, src string) []*Violation {
	var vs []*Violation
	for _, n := range nodes {
		env := newNodeEnv(n, src)
		out, err := expr.Run(r.when, env)
		if err != nil {
			l.logger().Warn("Evaluate rule", "code", r.Code, "node", env.Type, "pos", n.Span.String(), "error", err)
			continue
		}
		if ok, _ := out.(bool); !ok {
			continue
		}
		if len(r.patterns) > 0 && !r.match(env.Source) {
			continue
		}
		vs = append(vs, &Violation{
			Code:    r.Code,
			Message: r.Message,
			Source:  markup.Source{File: file, Span: n.Span},
			Match:   env.Source,
			doc:     buildContext(n),
		})
	}
	return vs
}

func inSpans(spans []markup.Span, offset int) bool {
	for _, s := range spans {
		if s.Offset <= offset && offset < s.End() {
			return true
		}
	}
	return false
}

// nodeAt returns the last node in document order whose span holds offset.
func nodeAt(nodes []*markup.Node, offset int) *markup.Node {
	var found *markup.Node
	for _, n := range nodes {
		if n.Type != markup.RootNode && n.Span.Offset <= offset && offset < n.Span.End() {
			found = n
		}
	}
	return found
}
