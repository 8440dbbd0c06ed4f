package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	djlint "github.com/youpiyoful/djLint"
	"github.com/youpiyoful/djLint/lint"
)

func newLintCommand(opts *options) *cobra.Command {
	var showContext bool

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report problems in templates",
		Long: `Checks the given files and directories against the built-in rules and the
rules of the linter_rules file of the configuration. Use "-" to read from
standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			rules := lint.DefaultRules()
			if cfg.LinterRules != "" {
				extra, err := lint.LoadRules(cfg.LinterRules)
				if err != nil {
					return err
				}
				rules = lint.Merge(rules, extra)
			}

			l := &lint.Linter{
				Rules:   rules,
				Options: cfg.ParseOptions(),
				Logger:  opts.logger(cmd),
			}

			files := args
			if len(args) != 1 || args[0] != "-" {
				f := &djlint.Formatter{Config: cfg}
				if files, err = f.Files(args); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			useColor := opts.useColor(out)
			count := 0
			for _, path := range files {
				src, err := readInput(cmd, path)
				if err != nil {
					return err
				}
				for _, v := range l.Lint(path, src) {
					count++
					printViolation(out, v, useColor)
					if showContext {
						if ctx := v.HTMLContext(); ctx != "" {
							fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(ctx, "\n", "\n    "))
						}
					}
				}
			}

			if count > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s in %s\n", plural(count, "problem"), plural(len(files), "file"))
				return reportedError{fmt.Errorf("%d: %w", count, ErrViolations)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showContext, "context", false, "Show the markup around each problem")

	return cmd
}

func printViolation(w io.Writer, v *lint.Violation, useColor bool) {
	if !useColor {
		fmt.Fprintf(w, "%s: %s %s\n", v.Source, v.Code, v.Message)
		return
	}
	fmt.Fprintf(w, "%s: ", v.Source)
	color.New(color.FgRed, color.Bold).Fprint(w, v.Code)
	fmt.Fprintf(w, " %s\n", v.Message)
}
