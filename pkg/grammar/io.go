package grammar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document format: %s", name)
	}
}

// DetectFormat picks a format from the file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseJSON parses a JSON document. Numbers are kept as json.Number so that
// 64-bit bounds are not rounded through float64.
func ParseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc *Node
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse JSON document: unexpected data after top-level value")
	}
	if doc == nil {
		return nil, errors.New("failed to parse JSON document: document is null")
	}
	return doc, nil
}

// ParseYAML parses a YAML document.
func ParseYAML(data []byte) (*Node, error) {
	var doc *Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML document: %w", err)
	}
	if doc == nil {
		return nil, errors.New("failed to parse YAML document: document is empty")
	}
	return doc, nil
}

// Parse parses data in the given format.
func Parse(data []byte, format Format) (*Node, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}

// ReadFile reads and parses the document at path.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// MarshalJSON renders doc as JSON. An indent of zero produces compact
// output.
func MarshalJSON(doc *Node, indent int) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent > 0 {
		data, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

// MarshalYAML renders doc as YAML with two-space indentation.
func MarshalYAML(doc *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeYAML writes v to w as YAML with two-space indentation. It is the
// single YAML writer for documents and for tool output.
func EncodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}

// Marshal renders doc in the given format.
func Marshal(doc *Node, format Format, indent int) ([]byte, error) {
	switch format {
	case FormatJSON:
		return MarshalJSON(doc, indent)
	case FormatYAML:
		return MarshalYAML(doc)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}
