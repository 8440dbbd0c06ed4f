package lint

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRule is returned when a rule fails to load or compile.
var ErrInvalidRule = errors.New("invalid rule")

//go:embed rules.yaml
var builtinRules []byte

var validate = validator.New()

// A Rule reports nodes or source text.
//
// A rule with a When condition is checked against every node of the tree;
// if it also has Patterns, one of them must match the source of the node.
// A rule with Patterns only is matched against the whole source.
type Rule struct {
	Code    string `yaml:"code" validate:"required"`
	Message string `yaml:"message" validate:"required"`

	// When is an expression over NodeEnv that yields a bool.
	When string `yaml:"when,omitempty" validate:"required_without=Patterns"`

	// Patterns are regular expressions in RE2 syntax.
	Patterns []string `yaml:"patterns,omitempty" validate:"required_without=When"`

	// Profiles restricts the rule to trees of these profiles.
	Profiles []string `yaml:"profiles,omitempty"`

	when     *vm.Program
	patterns []*regexp.Regexp
}

// compile prepares the condition and patterns of r.
func (r *Rule) compile() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidRule, r.Code, err)
	}

	if r.When != "" {
		prog, err := expr.Compile(r.When, expr.Env(NodeEnv{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("%w %s: compile condition: %v", ErrInvalidRule, r.Code, err)
		}
		r.when = prog
	}

	r.patterns = r.patterns[:0]
	for _, p := range r.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("%w %s: %v", ErrInvalidRule, r.Code, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return nil
}

// appliesTo reports whether r runs on trees of profile.
func (r *Rule) appliesTo(profile string) bool {
	return len(r.Profiles) == 0 || slices.Contains(r.Profiles, profile)
}

// match reports whether one of the patterns of r matches s.
func (r *Rule) match(s string) bool {
	for _, re := range r.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// ParseRules reads a yaml list of rules and compiles them.
func ParseRules(data []byte) ([]*Rule, error) {
	var rules []*Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	var errs []error
	for _, r := range rules {
		errs = append(errs, r.compile())
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadRules reads the rules in the yaml file at path.
func LoadRules(path string) ([]*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// DefaultRules returns the built-in rules.
func DefaultRules() []*Rule {
	rules, err := ParseRules(builtinRules)
	if err != nil {
		panic(err)
	}
	return rules
}

// Merge returns base with the rules of extra added. A rule of extra
// replaces the rule of base with the same code.
func Merge(base, extra []*Rule) []*Rule {
	merged := slices.Clone(base)
	for _, r := range extra {
		i := slices.IndexFunc(merged, func(b *Rule) bool { return b.Code == r.Code })
		if i >= 0 {
			merged[i] = r
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}
