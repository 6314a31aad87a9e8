package output

import (
	"io"

	"github.com/CliForge/cmdgrammar/pkg/grammar"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// YAMLFormatter writes YAML. Command trees are encoded into grammar
// documents first, so the output can be read back with grammar.ParseYAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Supports returns true for any data.
func (f *YAMLFormatter) Supports(data interface{}) bool {
	return true
}

// Format writes data as YAML.
func (f *YAMLFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if data == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}
	if config == nil {
		config = NewFormatConfig()
	}

	doc, err := document(data, config)
	if err != nil {
		return err
	}
	return grammar.EncodeYAML(w, doc)
}

// document converts command trees into grammar documents and returns any
// other data unchanged.
func document(data interface{}, config *FormatConfig) (interface{}, error) {
	enc := grammar.NewEncoder(config.Registry)
	switch d := data.(type) {
	case *tree.Node:
		return enc.Encode(d)
	case []*tree.Node:
		return enc.EncodeRoot(d)
	default:
		return data, nil
	}
}
