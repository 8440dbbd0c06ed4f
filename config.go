package djlint

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/youpiyoful/djLint/markup"
)

// ConfigFileName is the name of the configuration file looked up in the
// working directory.
const ConfigFileName = ".djlint.yaml"

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config controls formatting.
type Config struct {
	// Indent is the number of spaces per indentation level.
	Indent int `yaml:"indent" validate:"min=1,max=16"`

	// MaxLineLength is the column budget for one line.
	MaxLineLength int `yaml:"max_line_length" validate:"min=1"`

	// Profile pins the template profile. "all" detects it from the source.
	Profile string `yaml:"profile" validate:"oneof=all html django jinja nunjucks handlebars golang angular"`

	// FormatOff and FormatOn are the comment markers around regions that
	// are kept verbatim.
	FormatOff string `yaml:"format_off" validate:"required"`
	FormatOn  string `yaml:"format_on" validate:"required"`

	// Exclude lists glob patterns of paths that are skipped when walking
	// directories.
	Exclude []string `yaml:"exclude,omitempty"`

	// Extension is the file extension picked up when walking directories.
	Extension string `yaml:"extension" validate:"required"`

	// CustomBlocks are extra percent constructs that open a block.
	CustomBlocks []string `yaml:"custom_blocks,omitempty" validate:"dive,required"`

	// LinterRules is the path of a yaml file with extra lint rules.
	LinterRules string `yaml:"linter_rules,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Indent:        4,
		MaxLineLength: 120,
		Profile:       markup.ProfileAll,
		FormatOff:     "djlint:off",
		FormatOn:      "djlint:on",
		Extension:     "html",
	}
}

// LoadConfig reads the configuration at path on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the field values. The returned error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var msgs []string
	for _, e := range verrs {
		field := yamlName(e.StructField())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// yamlName maps a struct field to its key in the configuration file.
func yamlName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	switch field {
	case "MaxLineLength":
		return "max_line_length"
	case "FormatOff":
		return "format_off"
	case "FormatOn":
		return "format_on"
	case "CustomBlocks":
		return "custom_blocks"
	case "LinterRules":
		return "linter_rules"
	}
	return strings.ToLower(field)
}

// Clone returns a copy of c that shares no slices with it.
func (c Config) Clone() Config {
	c.Exclude = slices.Clone(c.Exclude)
	c.CustomBlocks = slices.Clone(c.CustomBlocks)
	return c
}

// withDefaults fills the zero fields of c from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Indent <= 0 {
		c.Indent = d.Indent
	}
	if c.MaxLineLength <= 0 {
		c.MaxLineLength = d.MaxLineLength
	}
	if c.Profile == "" {
		c.Profile = d.Profile
	}
	if c.FormatOff == "" {
		c.FormatOff = d.FormatOff
	}
	if c.FormatOn == "" {
		c.FormatOn = d.FormatOn
	}
	if c.Extension == "" {
		c.Extension = d.Extension
	}
	return c
}

// ParseOptions returns the tree building options of c.
func (c Config) ParseOptions() markup.Options {
	return markup.Options{
		Profile:      c.Profile,
		CustomBlocks: c.CustomBlocks,
		FormatOff:    c.FormatOff,
		FormatOn:     c.FormatOn,
	}
}
