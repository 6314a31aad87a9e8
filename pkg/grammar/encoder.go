package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CliForge/cmdgrammar/pkg/argcodec"
	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// Encoder converts command trees into documents.
type Encoder struct {
	registry *argcodec.Registry
}

// NewEncoder creates an encoder using registry for argument types. A nil
// registry means argcodec.NewRegistry().
func NewEncoder(registry *argcodec.Registry) *Encoder {
	if registry == nil {
		registry = argcodec.NewRegistry()
	}
	return &Encoder{registry: registry}
}

// Encode converts root and its subtree. Handles are written as their
// original reference strings, so fallback handles survive a round trip.
func (e *Encoder) Encode(root *tree.Node) (*Node, error) {
	if root == nil {
		return nil, errors.New("cannot encode nil node")
	}
	return e.encode(nil, root)
}

// EncodeRoot wraps commands in a dispatcher root document.
func (e *Encoder) EncodeRoot(commands []*tree.Node) (*Node, error) {
	doc := &Node{
		Name:     RootName,
		Argument: argcodec.Record{argumentTypeKey: RootType},
	}

	seen := make(map[string]bool, len(commands))
	for _, cmd := range commands {
		if cmd == nil {
			continue
		}
		if seen[cmd.Name()] {
			return nil, &NodeError{Path: cmd.Name(), Err: &DuplicateChildError{Name: cmd.Name()}}
		}
		seen[cmd.Name()] = true

		child, err := e.encode(nil, cmd)
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, child)
	}
	return doc, nil
}

func (e *Encoder) encode(parent []string, n *tree.Node) (*Node, error) {
	path := append(append([]string(nil), parent...), n.Name())

	doc := &Node{Name: n.Name()}
	if n.IsLiteral() {
		doc.Argument = argcodec.Record{argumentTypeKey: LiteralType}
	} else {
		arg, err := e.encodeArgument(n.Spec())
		if err != nil {
			return nil, &NodeError{Path: strings.Join(path, "/"), Err: err}
		}
		doc.Argument = arg
	}

	if a := n.Action(); a != nil {
		doc.Executes = Ref(a.Ref)
	}
	if g := n.Guard(); g != nil {
		doc.Requires = Ref(g.Ref)
	}

	for _, c := range n.Children() {
		child, err := e.encode(path, c)
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, child)
	}

	return doc, nil
}

func (e *Encoder) encodeArgument(spec tree.ArgumentSpec) (argcodec.Record, error) {
	if spec == nil {
		return nil, errors.New("argument node has no argument spec")
	}
	typeID := spec.TypeID()
	if typeID == LiteralType || typeID == RootType {
		return nil, fmt.Errorf("argument type '%s' is reserved", typeID)
	}

	rec, err := e.registry.Encode(spec)
	if err != nil {
		return nil, err
	}

	arg := make(argcodec.Record, len(rec)+1)
	for k, v := range rec {
		arg[k] = v
	}
	arg[argumentTypeKey] = typeID
	return arg, nil
}
