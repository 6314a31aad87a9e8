// Package output renders grammar documents and command trees for the
// terminal.
package output

import (
	"io"

	"github.com/CliForge/cmdgrammar/pkg/argcodec"
)

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes data to w according to the formatter's rules.
	Format(w io.Writer, data interface{}, config *FormatConfig) error

	// Name returns the name of the formatter (e.g., "json", "yaml", "tree").
	Name() string

	// Supports returns true if the formatter can handle the given data type.
	Supports(data interface{}) bool
}

// FormatConfig contains configuration options for formatting output.
type FormatConfig struct {
	// Indent is the JSON indentation width; 0 produces compact JSON.
	Indent int

	// Colors enables colored output
	Colors bool

	// ShowHeaders controls header display (for tables)
	ShowHeaders bool

	// ShowHandles adds executes/requires references to tree labels
	ShowHandles bool

	// Registry encodes command trees written as documents. Nil means the
	// built-in argument types only.
	Registry *argcodec.Registry
}

// NewFormatConfig creates a new FormatConfig with sensible defaults.
func NewFormatConfig() *FormatConfig {
	return &FormatConfig{
		Indent:      2,
		Colors:      true,
		ShowHeaders: true,
		ShowHandles: true,
	}
}

// WithIndent sets the JSON indentation width.
func (c *FormatConfig) WithIndent(indent int) *FormatConfig {
	c.Indent = indent
	return c
}

// WithColors sets the colors option.
func (c *FormatConfig) WithColors(colors bool) *FormatConfig {
	c.Colors = colors
	return c
}

// WithHandles sets whether tree labels show handle references.
func (c *FormatConfig) WithHandles(show bool) *FormatConfig {
	c.ShowHandles = show
	return c
}

// WithRegistry sets the registry used to encode command trees.
func (c *FormatConfig) WithRegistry(reg *argcodec.Registry) *FormatConfig {
	c.Registry = reg
	return c
}
