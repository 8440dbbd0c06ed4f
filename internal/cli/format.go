package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	djlint "github.com/youpiyoful/djLint"
)

func newFormatCommand(opts *options) *cobra.Command {
	var check, reformat, quiet bool

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format templates",
		Long: `Formats the given files and directories. Directories are walked for files
with the configured extension. Use "-" to read from standard input.

Default behavior:
  Prints the formatted templates to stdout

Flags:
  --check       Print a diff of the changes and fail if any file would change
  --reformat    Write the formatted templates back in place

Examples:
  format templates/ --check
  format index.html --reformat
  cat index.html | djlint format -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 && args[0] == "-" {
				return formatStdin(cmd, opts, cfg, check, quiet)
			}

			f := &djlint.Formatter{
				Config:   cfg,
				Reformat: reformat,
				Logger:   opts.logger(cmd),
			}
			files, err := f.Files(args)
			if err != nil {
				return err
			}

			results, err := f.FormatFiles(cmd.Context(), files)
			if err != nil {
				// failed files are logged by the formatter
				err = reportedError{err}
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			switch {
			case check:
				changed := 0
				for _, r := range results {
					if !r.Changed() {
						continue
					}
					changed++
					if !quiet {
						printDiff(out, r.Diff(), opts.useColor(out))
					}
				}
				if !quiet {
					fmt.Fprintf(errOut, "%s would be reformatted, %s checked\n",
						plural(changed, "file"), plural(len(results), "file"))
				}
				if checkErr := djlint.Check(results); checkErr != nil {
					return errors.Join(err, reportedError{checkErr})
				}
			case reformat:
				if !quiet {
					changed := 0
					for _, r := range results {
						if r.Changed() {
							changed++
						}
					}
					fmt.Fprintf(errOut, "%s reformatted, %s checked\n",
						plural(changed, "file"), plural(len(results), "file"))
				}
			default:
				for _, r := range results {
					fmt.Fprint(out, r.Formatted)
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Print a diff and fail if a file would be reformatted")
	cmd.Flags().BoolVar(&reformat, "reformat", false, "Write formatted files in place")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print diffs and summaries")
	cmd.MarkFlagsMutuallyExclusive("check", "reformat")

	return cmd
}

func formatStdin(cmd *cobra.Command, opts *options, cfg djlint.Config, check, quiet bool) error {
	src, err := readInput(cmd, "-")
	if err != nil {
		return err
	}

	r := djlint.Result{Path: "-", Original: src, Formatted: djlint.Format(src, cfg)}
	out := cmd.OutOrStdout()
	if !check {
		_, err := fmt.Fprint(out, r.Formatted)
		return err
	}

	if r.Changed() && !quiet {
		printDiff(out, r.Diff(), opts.useColor(out))
	}
	if err := djlint.Check([]djlint.Result{r}); err != nil {
		return reportedError{err}
	}
	return nil
}
