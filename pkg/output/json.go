package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Supports returns true if the formatter can handle the given data type.
// JSON formatter can handle any data type.
func (f *JSONFormatter) Supports(data interface{}) bool {
	return true
}

// Format formats the data as JSON and writes it to the writer.
func (f *JSONFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}

	data, err := document(data, config)
	if err != nil {
		return err
	}

	var output []byte
	if config.Indent > 0 {
		output, err = json.MarshalIndent(data, "", strings.Repeat(" ", config.Indent))
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := w.Write(output); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
