package main

import (
	"github.com/spf13/cobra"

	"github.com/CliForge/cmdgrammar/pkg/grammar"
	"github.com/CliForge/cmdgrammar/pkg/output"
)

func newTypesCmd(a *app) *cobra.Command {
	format := newFormatValue("table", "table", "json", "yaml")

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the argument types this tool understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format.String() != "table" {
				return a.output.Format(cmd.OutOrStdout(), typeList(a), format.String())
			}

			table := &output.Table{Headers: []string{"TYPE", "KIND"}}
			for _, t := range typeList(a) {
				table.Rows = append(table.Rows, []string{t["type"], t["kind"]})
			}
			return a.output.Format(cmd.OutOrStdout(), table, "table")
		},
	}

	cmd.Flags().VarP(format, "format", "f", "Output format ("+format.usage()+")")

	return cmd
}

func typeList(a *app) []map[string]string {
	types := []map[string]string{
		{"type": grammar.LiteralType, "kind": "literal"},
		{"type": grammar.RootType, "kind": "dispatcher root"},
	}
	for _, t := range a.registry.Types() {
		types = append(types, map[string]string{"type": t, "kind": "argument"})
	}
	return types
}
