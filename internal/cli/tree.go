package cli

import (
	"github.com/spf13/cobra"

	"github.com/youpiyoful/djLint/markup"
)

func newTreeCommand(opts *options) *cobra.Command {
	var asXML bool

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the parsed tree of a template",
		Long: `Parses a template and prints its tree, one node per line. With --xml the
tree is printed as an XML document carrying the position and whitespace
properties of every node. Reads standard input when no path is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			src, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			tree := markup.Parse(src, cfg.ParseOptions())
			if asXML {
				_, err = tree.XML().WriteTo(cmd.OutOrStdout())
				return err
			}
			return tree.Dump(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&asXML, "xml", false, "Print the tree as XML")

	return cmd
}
