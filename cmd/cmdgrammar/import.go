package main

import (
	"github.com/spf13/cobra"

	"github.com/CliForge/cmdgrammar/internal/openapi"
	"github.com/CliForge/cmdgrammar/pkg/grammar"
	"github.com/CliForge/cmdgrammar/pkg/progress"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

func newImportOpenAPICmd(a *app) *cobra.Command {
	var (
		outPath     string
		symbolsPath string
		noTags      bool
		noValidate  bool
	)
	cfg := openapi.DefaultImporterConfig()
	format := newFormatValue("", "json", "yaml", "tree")

	cmd := &cobra.Command{
		Use:   "import-openapi <spec>",
		Short: "Build a grammar document from an OpenAPI specification",
		Long: `Build a grammar document from an OpenAPI 3.x or Swagger 2.0 specification.

Each operation becomes a literal command named after its operationId,
grouped under a literal per tag. Path parameters become typed arguments
in path order. The last node of every operation executes
"<qualifier>::<operationId>", and secured operations require
"<qualifier>::authenticated".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := openapi.NewParser()
			parser.DisableValidation = noValidate

			var spec *openapi.Spec
			spinner := progress.NewSpinner(progress.DefaultConfig(cmd.ErrOrStderr()))
			err := progress.Run(spinner, "Loading "+args[0], func() error {
				var err error
				spec, err = parser.ParseFile(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			a.logger.Debug("spec parsed", "path", args[0], "title", spec.Title(), "version", string(spec.OriginalVersion))

			var diags []*tree.Diagnostic
			resolver, err := a.newResolver(symbolsPath, &diags)
			if err != nil {
				return err
			}
			cfg.Resolver = resolver
			cfg.GroupByTags = !noTags
			root, err := openapi.NewImporter(cfg).Import(spec)
			if err != nil {
				return err
			}

			a.logger.Debug("spec imported", "nodes", tree.Count(root), "unresolved", len(diags))

			f := format.String()
			if f == "" {
				f = string(a.documentFormat(outPath))
			}
			if f == "tree" {
				return a.output.Format(cmd.OutOrStdout(), root, "tree")
			}

			doc, err := grammar.NewEncoder(a.registry).Encode(root)
			if err != nil {
				return err
			}
			return a.writeDocument(cmd.OutOrStdout(), outPath, doc, grammar.Format(f))
		},
	}

	cmd.Flags().StringVar(&cfg.Name, "name", cfg.Name, "Name of the root literal")
	cmd.Flags().StringVar(&cfg.Qualifier, "qualifier", "", "Qualifier for handler references (defaults to --name)")
	cmd.Flags().VarP(format, "format", "f", "Output format ("+format.usage()+")")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&symbolsPath, "symbols", "", "Symbol file used to resolve the generated references")
	cmd.Flags().BoolVar(&noTags, "no-tags", false, "Do not group operations by tag")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip OpenAPI validation")

	return cmd
}
