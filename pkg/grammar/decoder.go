package grammar

import (
	"fmt"
	"strings"

	"github.com/CliForge/cmdgrammar/pkg/argcodec"
	"github.com/CliForge/cmdgrammar/pkg/handler"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// Decoder converts documents into command trees.
type Decoder struct {
	registry *argcodec.Registry
	resolver *handler.Resolver
}

// NewDecoder creates a decoder. A nil registry means argcodec.NewRegistry();
// a nil resolver resolves nothing, so every reference becomes a fallback.
func NewDecoder(registry *argcodec.Registry, resolver *handler.Resolver) *Decoder {
	if registry == nil {
		registry = argcodec.NewRegistry()
	}
	if resolver == nil {
		resolver = handler.NewResolver(nil, nil)
	}
	return &Decoder{
		registry: registry,
		resolver: resolver,
	}
}

// binding is a handler reference waiting to be resolved onto a builder.
type binding struct {
	b    *tree.Builder
	kind tree.HandleKind
	ref  string
}

// Decode converts doc into a node builder. Unresolvable references do not
// fail the call; they produce fallback handles. Every other problem fails the
// whole call with a *NodeError.
//
// References are resolved only after the whole document has decoded, so a
// failed call reports no diagnostics.
func (d *Decoder) Decode(doc *Node) (*tree.Builder, error) {
	var refs []binding
	b, err := d.decode(nil, "", doc, &refs)
	if err != nil {
		return nil, err
	}
	d.bind(refs)
	return b, nil
}

// DecodeNode is like Decode but returns the built node.
func (d *Decoder) DecodeNode(doc *Node) (*tree.Node, error) {
	b, err := d.Decode(doc)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// DecodeRoot decodes a dispatcher root document into its commands.
func (d *Decoder) DecodeRoot(doc *Node) ([]*tree.Node, error) {
	if doc == nil {
		return nil, &NodeError{Err: &MissingFieldError{Field: FieldName}}
	}
	if !doc.IsRoot() {
		return nil, &NodeError{
			Path: doc.Name,
			Err:  fmt.Errorf("expected argument type '%s', got '%s'", RootType, doc.Type()),
		}
	}

	var (
		builders []*tree.Builder
		refs     []binding
	)
	seen := make(map[string]bool, len(doc.Children))
	for i, c := range doc.Children {
		b, err := d.decode(nil, fmt.Sprintf("[%d]", i), c, &refs)
		if err != nil {
			return nil, err
		}
		if seen[b.Name()] {
			return nil, &NodeError{Path: b.Name(), Err: &DuplicateChildError{Name: b.Name()}}
		}
		seen[b.Name()] = true
		builders = append(builders, b)
	}

	d.bind(refs)

	commands := make([]*tree.Node, 0, len(builders))
	for _, b := range builders {
		n, err := b.Build()
		if err != nil {
			return nil, err
		}
		commands = append(commands, n)
	}
	return commands, nil
}

// bind resolves refs in the order they were collected.
func (d *Decoder) bind(refs []binding) {
	for _, r := range refs {
		switch r.kind {
		case tree.HandleAction:
			r.b.Executes(d.resolver.ResolveAction(r.ref))
		case tree.HandleGuard:
			r.b.Requires(d.resolver.ResolveGuard(r.ref))
		}
	}
}

// decode converts doc. placeholder names the node in error paths when doc
// has no usable name.
func (d *Decoder) decode(parent []string, placeholder string, doc *Node, refs *[]binding) (*tree.Builder, error) {
	name := placeholder
	if doc != nil && doc.Name != "" {
		name = doc.Name
	}
	path := append(append([]string(nil), parent...), name)
	fail := func(err error) (*tree.Builder, error) {
		return nil, &NodeError{Path: strings.Join(path, "/"), Err: err}
	}

	if doc == nil || doc.Name == "" {
		return fail(&MissingFieldError{Field: FieldName})
	}
	if doc.Argument == nil {
		return fail(&MissingFieldError{Field: FieldArgument})
	}
	rawType, ok := doc.Argument[argumentTypeKey]
	if !ok || rawType == nil {
		return fail(&MissingFieldError{Field: FieldType})
	}
	typeID, ok := rawType.(string)
	if !ok || typeID == "" {
		return fail(&argcodec.MalformedArgumentError{
			Field:  argumentTypeKey,
			Value:  rawType,
			Reason: "must be a non-empty string",
		})
	}

	var b *tree.Builder
	switch typeID {
	case LiteralType:
		b = tree.Literal(doc.Name)
	case RootType:
		return fail(fmt.Errorf("argument type '%s' is only valid for dispatcher root documents", RootType))
	default:
		rec := make(argcodec.Record, len(doc.Argument))
		for k, v := range doc.Argument {
			if k != argumentTypeKey {
				rec[k] = v
			}
		}
		spec, err := d.registry.Decode(typeID, rec)
		if err != nil {
			return fail(err)
		}
		b = tree.Argument(doc.Name, spec)
	}

	seen := make(map[string]bool, len(doc.Children))
	for i, c := range doc.Children {
		child, err := d.decode(path, fmt.Sprintf("[%d]", i), c, refs)
		if err != nil {
			return nil, err
		}
		if seen[child.Name()] {
			return nil, &NodeError{
				Path: strings.Join(append(path, child.Name()), "/"),
				Err:  &DuplicateChildError{Name: child.Name()},
			}
		}
		seen[child.Name()] = true
		b.Then(child)
	}

	if doc.Executes != nil {
		*refs = append(*refs, binding{b: b, kind: tree.HandleAction, ref: *doc.Executes})
	}
	if doc.Requires != nil {
		*refs = append(*refs, binding{b: b, kind: tree.HandleGuard, ref: *doc.Requires})
	}

	return b, nil
}
