package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CliForge/cmdgrammar/pkg/grammar"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		outPath     string
		symbolsPath string
	)
	format := newFormatValue("", "json", "yaml")

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a grammar document between JSON and YAML",
		Long: `Decode a grammar document and encode it again in the requested format.

The document passes through a full decode, so the output is normalized:
default bounds are dropped and string types are written explicitly.
Without --format the output file extension decides, then output.format
from the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load(args[0], symbolsPath)
			if err != nil {
				return err
			}

			doc, err := a.encode(l)
			if err != nil {
				return err
			}

			f := grammar.Format(format.String())
			if f == "" {
				f = a.documentFormat(outPath)
			}

			return a.writeDocument(cmd.OutOrStdout(), outPath, doc, f)
		},
	}

	cmd.Flags().VarP(format, "format", "f", "Output format ("+format.usage()+")")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&symbolsPath, "symbols", "", "Symbol file used to resolve handler references")

	return cmd
}

// documentFormat picks the document format when none was requested.
func (a *app) documentFormat(outPath string) grammar.Format {
	if outPath != "" {
		return grammar.DetectFormat(outPath)
	}
	if a.config.Output.Format == string(grammar.FormatYAML) {
		return grammar.FormatYAML
	}
	return grammar.FormatJSON
}

func (a *app) writeDocument(w io.Writer, outPath string, doc *grammar.Node, f grammar.Format) error {
	data, err := grammar.Marshal(doc, f, a.config.Output.Indent)
	if err != nil {
		return err
	}
	if f == grammar.FormatJSON {
		data = append(data, '\n')
	}

	if outPath == "" {
		_, err = w.Write(data)
		return err
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	a.logger.Info("document written", "path", outPath, "format", string(f))
	return nil
}
