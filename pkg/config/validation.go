package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Accepted values.
var (
	LogLevels     = []string{"debug", "info", "warn", "error"}
	OutputFormats = []string{"json", "yaml", "tree"}
)

// MaxIndent is the largest accepted JSON indent.
const MaxIndent = 8

// Validator handles configuration validation.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates a configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	if !contains(LogLevels, cfg.LogLevel) {
		v.addError("log_level", fmt.Sprintf("must be one of: %s", strings.Join(LogLevels, ", ")))
	}

	if !contains(OutputFormats, cfg.Output.Format) {
		v.addError("output.format", fmt.Sprintf("must be one of: %s", strings.Join(OutputFormats, ", ")))
	}

	if cfg.Output.Indent < 0 || cfg.Output.Indent > MaxIndent {
		v.addError("output.indent", fmt.Sprintf("must be between 0 and %d", MaxIndent))
	}

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
