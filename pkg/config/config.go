// Package config handles loading and validation of the cmdgrammar tool
// configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the tool configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// Output controls how documents and trees are written.
	Output Output `yaml:"output"`
	// Symbols is the path of a symbol file used to resolve handler
	// references. Empty means references are not resolved.
	Symbols string `yaml:"symbols"`
	// Strict makes validate fail on unresolved references.
	Strict bool `yaml:"strict"`
}

// Output holds output settings.
type Output struct {
	// Format is json, yaml or tree.
	Format string `yaml:"format"`
	// Indent is the JSON indentation width; 0 means compact.
	Indent int `yaml:"indent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
	return &cfg
}

// Loader loads configuration from the defaults, the user config file and
// the environment.
type Loader struct {
	appName    string
	envPrefix  string
	configPath string
}

// NewLoader creates a loader for appName. Environment variables use the
// upper-cased app name as prefix.
func NewLoader(appName string) *Loader {
	return &Loader{
		appName:   appName,
		envPrefix: strings.ToUpper(strings.ReplaceAll(appName, "-", "_")),
	}
}

// WithConfigPath sets an explicit config file. Unlike the default location,
// an explicit file must exist.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// EnvPrefix returns the environment variable prefix.
func (l *Loader) EnvPrefix() string {
	return l.envPrefix
}

// ConfigPath returns the config file location: the explicit path, then
// <PREFIX>_CONFIG, then $XDG_CONFIG_HOME/<app>/config.yaml.
func (l *Loader) ConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}
	if customPath := os.Getenv(l.envPrefix + "_CONFIG"); customPath != "" {
		return customPath
	}
	return filepath.Join(xdg.ConfigHome, l.appName, "config.yaml")
}

// Load loads, overrides and validates the configuration.
// Priority: ENV > User Config > Default
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if err := l.loadFile(cfg); err != nil {
		return nil, err
	}

	if err := l.applyEnvironmentOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) loadFile(cfg *Config) error {
	path := l.ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		// Only an explicitly requested file is mandatory.
		if errors.Is(err, os.ErrNotExist) && l.configPath == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies <PREFIX>_* environment variables.
func (l *Loader) applyEnvironmentOverrides(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	keys := []string{"log_level", "output.format", "output.indent", "symbols", "strict"}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("output.format") {
		cfg.Output.Format = v.GetString("output.format")
	}
	if v.IsSet("output.indent") {
		n, err := strconv.Atoi(v.GetString("output.indent"))
		if err != nil {
			return fmt.Errorf("%s_OUTPUT_INDENT: %w", l.envPrefix, err)
		}
		cfg.Output.Indent = n
	}
	if v.IsSet("symbols") {
		cfg.Symbols = v.GetString("symbols")
	}
	if v.IsSet("strict") {
		b, err := strconv.ParseBool(v.GetString("strict"))
		if err != nil {
			return fmt.Errorf("%s_STRICT: %w", l.envPrefix, err)
		}
		cfg.Strict = b
	}

	return nil
}

// Save writes cfg to the config file location.
func (l *Loader) Save(cfg *Config) error {
	path := l.ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
