// Package main implements the cmdgrammar CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/CliForge/cmdgrammar/internal/logging"
	"github.com/CliForge/cmdgrammar/pkg/argcodec"
	"github.com/CliForge/cmdgrammar/pkg/config"
	"github.com/CliForge/cmdgrammar/pkg/output"
)

var (
	// Version is set at build time
	version = "0.1.0"
)

const appName = "cmdgrammar"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	configPath string

	config   *config.Config
	logger   *slog.Logger
	output   *output.Manager
	registry *argcodec.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var (
		logLevel string
		verbose  bool
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert command grammars between documents and command trees",
		Long: `cmdgrammar reads and writes command grammar documents: JSON or YAML
descriptions of command trees made of literal and typed-argument nodes,
with handler references for actions and guards.

It validates documents, converts between formats, renders trees and
imports OpenAPI specifications as command grammars.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loader := a.loader()
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if verbose {
				cfg.LogLevel = logging.LevelDebug
			}

			logger, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a.config = cfg
			a.logger = logger
			a.registry = argcodec.NewRegistry()
			a.registry.Freeze()
			a.output = output.NewManager()
			a.output.SetConfig(output.NewFormatConfig().
				WithIndent(cfg.Output.Indent).
				WithRegistry(a.registry).
				WithColors(!noColor && os.Getenv("NO_COLOR") == ""))

			logger.Debug("configuration loaded", "path", loader.ConfigPath(), "format", cfg.Output.Format)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newTreeCmd(a))
	cmd.AddCommand(newImportOpenAPICmd(a))
	cmd.AddCommand(newTypesCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// loader returns the config loader for the --config flag.
func (a *app) loader() *config.Loader {
	loader := config.NewLoader(appName)
	if a.configPath != "" {
		loader.WithConfigPath(a.configPath)
	}
	return loader
}
