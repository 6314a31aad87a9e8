package main

import (
	"github.com/spf13/cobra"

	"github.com/CliForge/cmdgrammar/pkg/tree"
)

func newTreeCmd(a *app) *cobra.Command {
	var (
		symbolsPath string
		source      string
		noHandles   bool
	)

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Render a grammar document as a command tree",
		Long: `Render a grammar document as a command tree.

With --as, only the nodes whose guards admit the given source are shown.
A guard that denies hides its node and everything below it. Guards that
cannot be resolved always deny.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("symbols") {
				symbolsPath = a.config.Symbols
			}

			l, err := a.load(args[0], symbolsPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("as") {
				ctx := &tree.Context{Source: source}
				var visible []*tree.Node
				for _, c := range l.commands {
					if v := tree.Visible(c, ctx); v != nil {
						visible = append(visible, v)
					}
				}
				l.commands = visible
				l.root = true
			}

			cfg := *a.output.GetConfig()
			cfg.ShowHandles = !noHandles
			a.output.SetConfig(&cfg)

			return a.output.Format(cmd.OutOrStdout(), l.nodes(), "tree")
		},
	}

	cmd.Flags().StringVar(&symbolsPath, "symbols", "", "Symbol file used to resolve handler references")
	cmd.Flags().StringVar(&source, "as", "", "Show only nodes usable by this command source")
	cmd.Flags().BoolVar(&noHandles, "no-handles", false, "Hide executes/requires references")

	return cmd
}
