// Package cli implements the djlint command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	djlint "github.com/youpiyoful/djLint"
)

// Version is set at build time.
var Version = "dev"

// ErrViolations is returned by the lint command when it reported problems.
var ErrViolations = errors.New("lint violations found")

// reportedError wraps an error whose details the command already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// IsReported reports whether the details of err were already printed.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// options are the flags shared by all commands.
type options struct {
	debug         bool
	noColor       bool
	configPath    string
	indent        int
	maxLineLength int
	profile       string
}

// NewRootCommand builds the djlint command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "djlint",
		Short:         "HTML template formatter and linter",
		Long:          "djlint formats and lints HTML templates written for Django, Jinja, Nunjucks, Handlebars, Go and Angular.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.debug, "debug", false, "Enable verbose debug output")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable color output")
	pf.StringVar(&opts.configPath, "configuration", djlint.ConfigFileName, "Path of the configuration file")
	pf.IntVar(&opts.indent, "indent", 0, "Spaces per indentation level (overrides the configuration)")
	pf.IntVar(&opts.maxLineLength, "max-line-length", 0, "Maximum line length (overrides the configuration)")
	pf.StringVar(&opts.profile, "profile", "", "Template profile: all, html, django, jinja, nunjucks, handlebars, golang or angular")

	cmd.SetVersionTemplate(`djlint version {{.Version}}
`)

	cmd.AddCommand(
		newFormatCommand(opts),
		newLintCommand(opts),
		newTreeCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// config loads the configuration file and applies the flags that were set.
func (o *options) config(cmd *cobra.Command) (djlint.Config, error) {
	cfg, err := djlint.LoadConfig(o.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("indent") {
		cfg.Indent = o.indent
	}
	if flags.Changed("max-line-length") {
		cfg.MaxLineLength = o.maxLineLength
	}
	if flags.Changed("profile") {
		cfg.Profile = o.profile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// logger returns a text logger on the error output of cmd.
func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// useColor determines if color output should be used for w.
func (o *options) useColor(w io.Writer) bool {
	if o.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printDiff writes a unified diff, colored when enabled.
func printDiff(w io.Writer, diff string, useColor bool) {
	if !useColor {
		fmt.Fprint(w, diff)
		return
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			color.New(color.Bold).Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			color.New(color.FgCyan).Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			color.New(color.FgGreen).Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			color.New(color.FgRed).Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

// readInput reads the file at path, or the input of cmd when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "djlint version %s\n", Version)
			return err
		},
	}
}
