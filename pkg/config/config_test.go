package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CMDGRAMMAR_CONFIG", filepath.Join(dir, "config.yaml"))
	for _, key := range []string{"LOG_LEVEL", "OUTPUT_FORMAT", "OUTPUT_INDENT", "SYMBOLS", "STRICT"} {
		t.Setenv("CMDGRAMMAR_"+key, "")
	}
	return dir
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader("cmd-grammar")

	if loader.appName != "cmd-grammar" {
		t.Errorf("expected appName 'cmd-grammar', got %s", loader.appName)
	}
	if loader.EnvPrefix() != "CMD_GRAMMAR" {
		t.Errorf("expected envPrefix 'CMD_GRAMMAR', got %s", loader.EnvPrefix())
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "warn" {
		t.Errorf("expected log_level 'warn', got %s", cfg.LogLevel)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected output.format 'json', got %s", cfg.Output.Format)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("expected output.indent 2, got %d", cfg.Output.Indent)
	}
	if cfg.Strict {
		t.Error("expected strict to be false")
	}
	if err := NewValidator().Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader("cmdgrammar").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected defaults, got format %s", cfg.Output.Format)
	}
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)

	content := "log_level: debug\noutput:\n  format: yaml\nsymbols: /etc/symbols.yaml\nstrict: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader("cmdgrammar").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected output.format 'yaml', got %s", cfg.Output.Format)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("expected default indent to survive, got %d", cfg.Output.Indent)
	}
	if cfg.Symbols != "/etc/symbols.yaml" {
		t.Errorf("expected symbols path, got %s", cfg.Symbols)
	}
	if !cfg.Strict {
		t.Error("expected strict to be true")
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := NewLoader("cmdgrammar").WithConfigPath(filepath.Join(dir, "missing.yaml")).Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := isolate(t)

	content := "output:\n  format: yaml\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CMDGRAMMAR_OUTPUT_FORMAT", "tree")
	t.Setenv("CMDGRAMMAR_OUTPUT_INDENT", "4")
	t.Setenv("CMDGRAMMAR_LOG_LEVEL", "error")
	t.Setenv("CMDGRAMMAR_STRICT", "true")
	t.Setenv("CMDGRAMMAR_SYMBOLS", "symbols.yaml")

	cfg, err := NewLoader("cmdgrammar").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output.Format != "tree" {
		t.Errorf("expected env to override file, got %s", cfg.Output.Format)
	}
	if cfg.Output.Indent != 4 {
		t.Errorf("expected indent 4, got %d", cfg.Output.Indent)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected log_level 'error', got %s", cfg.LogLevel)
	}
	if !cfg.Strict {
		t.Error("expected strict to be true")
	}
	if cfg.Symbols != "symbols.yaml" {
		t.Errorf("expected symbols 'symbols.yaml', got %s", cfg.Symbols)
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad indent", "CMDGRAMMAR_OUTPUT_INDENT", "wide"},
		{"bad strict", "CMDGRAMMAR_STRICT", "sometimes"},
		{"bad format", "CMDGRAMMAR_OUTPUT_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			if _, err := NewLoader("cmdgrammar").Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")
	loader := NewLoader("cmdgrammar").WithConfigPath(path)

	cfg := Default()
	cfg.Output.Format = "tree"
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Output.Format != "tree" {
		t.Errorf("expected saved format 'tree', got %s", loaded.Output.Format)
	}
}
