package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		strict      bool
		symbolsPath string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a grammar document",
		Long: `Validate a grammar document by decoding it into a command tree.

This command checks:
  - Document syntax and required fields
  - Argument types and their bounds
  - Duplicate sibling names
  - Handler references against a symbol file (with --symbols)

Unresolved references are reported but only fail with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				strict = a.config.Strict
			}
			if !cmd.Flags().Changed("symbols") {
				symbolsPath = a.config.Symbols
			}

			run := func() error {
				return a.validate(cmd.OutOrStdout(), args[0], symbolsPath, strict)
			}

			if !watch {
				return run()
			}

			report := func() {
				if err := run(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
			}
			report()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)\n", args[0])
			return watchFile(ctx, a.logger, args[0], report)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when handler references cannot be resolved")
	cmd.Flags().StringVar(&symbolsPath, "symbols", "", "Symbol file used to resolve handler references")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate whenever the file changes")

	return cmd
}

func (a *app) validate(w io.Writer, path, symbolsPath string, strict bool) error {
	l, err := a.load(path, symbolsPath)
	if err != nil {
		return err
	}

	label := "command"
	if len(l.commands) != 1 {
		label = "commands"
	}
	fmt.Fprintf(w, "✓ %s: %d nodes, %d %s\n", path, l.count(), len(l.commands), label)

	if len(l.diags) == 0 {
		return nil
	}

	fmt.Fprintf(w, "! %d unresolved handler references:\n", len(l.diags))
	for _, d := range l.diags {
		fmt.Fprintf(w, "  - %s\n", d)
	}

	if strict {
		return fmt.Errorf("%s: %d unresolved handler references", path, len(l.diags))
	}
	return nil
}
