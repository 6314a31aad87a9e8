package openapi

import (
	"fmt"
	"math"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/CliForge/cmdgrammar/pkg/handler"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// ImporterConfig configures tree construction.
type ImporterConfig struct {
	// Name is the root literal. Defaults to "api".
	Name string
	// Qualifier prefixes every generated handler reference. Defaults to Name.
	Qualifier string
	// GroupByTags nests operations under a literal for their first tag.
	GroupByTags bool
	// AuthSymbol is the guard symbol required by secured operations.
	AuthSymbol string
	// Resolver binds the generated references. A nil resolver leaves every
	// handle as a fallback.
	Resolver *handler.Resolver
}

// DefaultImporterConfig returns the default importer configuration.
func DefaultImporterConfig() *ImporterConfig {
	return &ImporterConfig{
		Name:        "api",
		GroupByTags: true,
		AuthSymbol:  "authenticated",
	}
}

// Importer builds command trees from parsed specifications.
type Importer struct {
	config *ImporterConfig
}

// NewImporter creates an importer. Empty names and a nil resolver take
// their defaults; a nil config means DefaultImporterConfig().
func NewImporter(config *ImporterConfig) *Importer {
	defaults := DefaultImporterConfig()
	if config == nil {
		config = defaults
	}
	cfg := *config
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Qualifier == "" {
		cfg.Qualifier = cfg.Name
	}
	if cfg.AuthSymbol == "" {
		cfg.AuthSymbol = defaults.AuthSymbol
	}
	if cfg.Resolver == nil {
		cfg.Resolver = handler.NewResolver(nil, nil)
	}
	return &Importer{config: &cfg}
}

// Import builds the command tree for spec.
func (im *Importer) Import(spec *Spec) (*tree.Node, error) {
	operations, err := spec.Operations()
	if err != nil {
		return nil, fmt.Errorf("failed to get operations: %w", err)
	}

	root := tree.Literal(im.config.Name)
	groups := make(map[string]*tree.Builder)

	for _, op := range operations {
		cmd, err := im.buildOperation(op)
		if err != nil {
			return nil, fmt.Errorf("failed to build command for %s %s: %w", op.Method, op.Path, err)
		}

		if !im.config.GroupByTags || len(op.Tags) == 0 {
			root.Then(cmd)
			continue
		}

		tag := toCommandName(op.Tags[0])
		group, ok := groups[tag]
		if !ok {
			group = tree.Literal(tag)
			groups[tag] = group
			root.Then(group)
		}
		group.Then(cmd)
	}

	return root.Build()
}

func (im *Importer) buildOperation(op *Operation) (*tree.Builder, error) {
	cmd := tree.Literal(commandName(op))
	if op.Secured {
		cmd.Requires(im.config.Resolver.ResolveGuard(im.reference(im.config.AuthSymbol)))
	}

	last := cmd
	for _, param := range op.PathParams {
		spec, err := argumentSpec(param.Schema)
		if err != nil {
			return nil, fmt.Errorf("parameter '%s': %w", param.Name, err)
		}
		arg := tree.Argument(param.Name, spec)
		last.Then(arg)
		last = arg
	}

	last.Executes(im.config.Resolver.ResolveAction(im.reference(symbolName(op))))
	return cmd, nil
}

func (im *Importer) reference(symbol string) string {
	return handler.Reference{Qualifier: im.config.Qualifier, Symbol: symbol}.String()
}

// commandName picks x-cli-command, then the operation ID, then a name built
// from the method and the static path segments.
func commandName(op *Operation) string {
	if op.Command != "" {
		return op.Command
	}
	if op.OperationID != "" {
		return toCommandName(op.OperationID)
	}
	return toCommandName(symbolName(op))
}

func symbolName(op *Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	parts := []string{strings.ToLower(op.Method)}
	for _, seg := range parsePathSegments(op.Path) {
		if !strings.HasPrefix(seg, "{") {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "_")
}

// argumentSpec maps a parameter schema to an argument spec:
// integer/int32 to integer, other integers to long, number/float to float,
// other numbers to double, boolean to boolean, anything else to a single
// word.
func argumentSpec(ref *openapi3.SchemaRef) (tree.ArgumentSpec, error) {
	if ref == nil || ref.Value == nil {
		return tree.Word(), nil
	}
	schema := ref.Value

	switch {
	case schema.Type.Is(openapi3.TypeInteger):
		if schema.Format == "int32" {
			min, max := intBounds(schema, math.MinInt32, math.MaxInt32)
			if min > max {
				return nil, fmt.Errorf("minimum %d exceeds maximum %d", min, max)
			}
			return tree.IntegerRange(int32(min), int32(max)), nil
		}
		min, max := intBounds(schema, math.MinInt64, math.MaxInt64)
		if min > max {
			return nil, fmt.Errorf("minimum %d exceeds maximum %d", min, max)
		}
		return tree.LongRange(min, max), nil

	case schema.Type.Is(openapi3.TypeNumber):
		if schema.Format == "float" {
			min, max := floatBounds(schema, math.MaxFloat32)
			if min > max {
				return nil, fmt.Errorf("minimum %v exceeds maximum %v", min, max)
			}
			return tree.FloatRange(float32(min), float32(max)), nil
		}
		min, max := floatBounds(schema, math.MaxFloat64)
		if min > max {
			return nil, fmt.Errorf("minimum %v exceeds maximum %v", min, max)
		}
		return tree.DoubleRange(min, max), nil

	case schema.Type.Is(openapi3.TypeBoolean):
		return tree.Bool(), nil

	default:
		return tree.Word(), nil
	}
}

// intBounds clamps schema bounds to [lo, hi].
func intBounds(schema *openapi3.Schema, lo, hi int64) (int64, int64) {
	min, max := lo, hi
	if schema.Min != nil && *schema.Min > float64(lo) {
		min = int64(math.Ceil(*schema.Min))
	}
	if schema.Max != nil && *schema.Max < float64(hi) {
		max = int64(math.Floor(*schema.Max))
	}
	return min, max
}

// floatBounds clamps schema bounds to [-limit, limit].
func floatBounds(schema *openapi3.Schema, limit float64) (float64, float64) {
	min, max := -limit, limit
	if schema.Min != nil && *schema.Min > min {
		min = *schema.Min
	}
	if schema.Max != nil && *schema.Max < max {
		max = *schema.Max
	}
	return min, max
}
