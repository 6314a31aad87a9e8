// Package openapi imports OpenAPI 3.x and Swagger 2.0 specifications as
// command trees.
//
// Each operation becomes a literal command, grouped under a literal per tag,
// followed by one typed argument per path parameter in path order:
//
//	api
//	└── pets
//	    ├── list-pets            executes=api::listPets
//	    └── get-pet
//	        └── <petId:long>     executes=api::getPet
//
// Swagger 2.0 documents are converted to OpenAPI 3.0 before import.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// SpecVersion indicates the OpenAPI specification version.
type SpecVersion string

const (
	// SpecVersionSwagger2 represents Swagger 2.0 / OpenAPI 2.0
	SpecVersionSwagger2 SpecVersion = "2.0"
	// SpecVersionOpenAPI3 represents OpenAPI 3.0.x
	SpecVersionOpenAPI3 SpecVersion = "3.0"
	// SpecVersionOpenAPI31 represents OpenAPI 3.1.x
	SpecVersionOpenAPI31 SpecVersion = "3.1"
)

// Parser handles parsing of OpenAPI 3.x and Swagger 2.0 specifications.
type Parser struct {
	// DisableValidation skips OpenAPI spec validation
	DisableValidation bool
	// AllowRemoteRefs enables loading remote $ref references
	AllowRemoteRefs bool
}

// NewParser creates a new Parser instance with default settings.
func NewParser() *Parser {
	return &Parser{}
}

// Spec is a parsed specification.
type Spec struct {
	// Doc is the OpenAPI 3.x document
	Doc *openapi3.T
	// OriginalVersion indicates the original spec format
	OriginalVersion SpecVersion
}

// Operation is a single API operation.
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Tags        []string
	// Command overrides the command name (x-cli-command).
	Command string
	// Secured reports whether any security requirement applies.
	Secured bool
	// PathParams are the path parameters in path order.
	PathParams []*openapi3.Parameter
}

// Parse parses a JSON or YAML specification.
func (p *Parser) Parse(ctx context.Context, data []byte) (*Spec, error) {
	version, err := p.detectVersion(data)
	if err != nil {
		return nil, fmt.Errorf("failed to detect spec version: %w", err)
	}

	var doc *openapi3.T

	switch version {
	case SpecVersionSwagger2:
		doc, err = p.parseSwagger2(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Swagger 2.0 spec: %w", err)
		}
	case SpecVersionOpenAPI3, SpecVersionOpenAPI31:
		doc, err = p.parseOpenAPI3(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse OpenAPI 3.x spec: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported spec version: %s", version)
	}

	return &Spec{
		Doc:             doc,
		OriginalVersion: version,
	}, nil
}

// ParseFile parses a specification from a file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(ctx, data)
}

// detectVersion reads the swagger or openapi field. YAML is a superset of
// JSON, so one decoder covers both encodings.
func (p *Parser) detectVersion(data []byte) (SpecVersion, error) {
	var versionCheck struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}

	if err := yaml.Unmarshal(data, &versionCheck); err != nil {
		return "", fmt.Errorf("failed to parse spec: %w", err)
	}

	if versionCheck.Swagger != "" {
		if strings.HasPrefix(versionCheck.Swagger, "2.") {
			return SpecVersionSwagger2, nil
		}
		return "", fmt.Errorf("unsupported swagger version: %s", versionCheck.Swagger)
	}

	if versionCheck.OpenAPI != "" {
		if strings.HasPrefix(versionCheck.OpenAPI, "3.0.") {
			return SpecVersionOpenAPI3, nil
		}
		if strings.HasPrefix(versionCheck.OpenAPI, "3.1.") {
			return SpecVersionOpenAPI31, nil
		}
		return "", fmt.Errorf("unsupported openapi version: %s", versionCheck.OpenAPI)
	}

	return "", fmt.Errorf("could not determine spec version (missing 'swagger' or 'openapi' field)")
}

// parseSwagger2 parses a Swagger 2.0 spec and converts it to OpenAPI 3.0.
func (p *Parser) parseSwagger2(ctx context.Context, data []byte) (*openapi3.T, error) {
	data, err := toJSON(data)
	if err != nil {
		return nil, err
	}

	var spec2 openapi2.T
	if err := json.Unmarshal(data, &spec2); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Swagger 2.0: %w", err)
	}

	spec3, err := openapi2conv.ToV3(&spec2)
	if err != nil {
		return nil, fmt.Errorf("failed to convert Swagger 2.0 to OpenAPI 3.0: %w", err)
	}

	if !p.DisableValidation {
		if err := spec3.Validate(ctx); err != nil {
			return nil, fmt.Errorf("converted spec validation failed: %w", err)
		}
	}

	return spec3, nil
}

// parseOpenAPI3 parses an OpenAPI 3.x specification.
func (p *Parser) parseOpenAPI3(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = p.AllowRemoteRefs

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI 3.x: %w", err)
	}

	if !p.DisableValidation {
		if err := doc.Validate(ctx); err != nil {
			return nil, fmt.Errorf("spec validation failed: %w", err)
		}
	}

	return doc, nil
}

// toJSON re-encodes a YAML or JSON document as JSON.
func toJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert spec to JSON: %w", err)
	}
	return out, nil
}

// Title returns the API title.
func (s *Spec) Title() string {
	if s.Doc.Info == nil {
		return ""
	}
	return s.Doc.Info.Title
}

// Operations returns all visible operations sorted by path and method.
// Operations marked x-cli-hidden are skipped.
func (s *Spec) Operations() ([]*Operation, error) {
	var operations []*Operation
	if s.Doc.Paths == nil {
		return operations, nil
	}

	for path, pathItem := range s.Doc.Paths.Map() {
		for method, operation := range pathItem.Operations() {
			if operation == nil {
				continue
			}

			if hidden, ok := operation.Extensions["x-cli-hidden"].(bool); ok && hidden {
				continue
			}

			op := &Operation{
				Method:      method,
				Path:        path,
				OperationID: operation.OperationID,
				Summary:     operation.Summary,
				Tags:        operation.Tags,
			}

			if cmd, ok := operation.Extensions["x-cli-command"].(string); ok {
				op.Command = cmd
			}

			if operation.Security != nil {
				op.Secured = len(*operation.Security) > 0
			} else {
				op.Secured = len(s.Doc.Security) > 0
			}

			params, err := pathParams(path, pathItem.Parameters, operation.Parameters)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			op.PathParams = params

			operations = append(operations, op)
		}
	}

	sort.Slice(operations, func(i, j int) bool {
		if operations[i].Path != operations[j].Path {
			return operations[i].Path < operations[j].Path
		}
		return methodRank(operations[i].Method) < methodRank(operations[j].Method)
	})

	return operations, nil
}

// pathParams returns the path parameters in the order they appear in the
// path template. Operation-level parameters override path-level ones.
func pathParams(path string, pathLevel, opLevel openapi3.Parameters) ([]*openapi3.Parameter, error) {
	byName := make(map[string]*openapi3.Parameter)
	for _, params := range []openapi3.Parameters{pathLevel, opLevel} {
		for _, ref := range params {
			if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInPath {
				continue
			}
			byName[ref.Value.Name] = ref.Value
		}
	}

	var ordered []*openapi3.Parameter
	for _, segment := range parsePathSegments(path) {
		if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}")
		param, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("path parameter '%s' is not declared", name)
		}
		ordered = append(ordered, param)
	}
	return ordered, nil
}

var methodOrder = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE", "CONNECT"}

func methodRank(method string) int {
	for i, m := range methodOrder {
		if m == method {
			return i
		}
	}
	return len(methodOrder)
}
