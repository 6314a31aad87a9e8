// Package tree models command grammars as ordered trees of literal and
// typed-argument nodes.
//
// A tree is built bottom-up with Builder:
//
//	root, err := tree.Literal("test").
//	    Then(tree.Argument("value", tree.IntegerRange(0, 1)).
//	        Executes(tree.NewAction("pkg.Cmd::run", run))).
//	    Build()
//
// Each node is owned by its parent. Child order is significant: it is the
// order in which a dispatcher tries alternatives.
package tree

import (
	"fmt"
	"strings"
)

// Kind classifies a node.
type Kind int

const (
	// KindLiteral matches a fixed token equal to the node name.
	KindLiteral Kind = iota
	// KindArgument matches a value described by an ArgumentSpec.
	KindArgument
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindArgument:
		return "argument"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is an immutable command-tree node. Use Builder to create one.
type Node struct {
	name     string
	kind     Kind
	spec     ArgumentSpec
	children []*Node
	action   *Action
	guard    *Guard
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Kind returns whether the node is a literal or an argument.
func (n *Node) Kind() Kind { return n.kind }

// IsLiteral reports whether the node is a literal.
func (n *Node) IsLiteral() bool { return n.kind == KindLiteral }

// Spec returns the argument spec, or nil for literals.
func (n *Node) Spec() ArgumentSpec { return n.spec }

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Action returns the executable handle, or nil.
func (n *Node) Action() *Action { return n.action }

// Guard returns the requirement handle, or nil.
func (n *Node) Guard() *Guard { return n.guard }

// CanUse reports whether the node's guard admits ctx. Nodes without a
// guard are always usable.
func (n *Node) CanUse(ctx *Context) bool {
	return n.guard == nil || n.guard.Allows(ctx)
}

func (n *Node) String() string {
	if n.kind == KindLiteral {
		return n.name
	}
	return fmt.Sprintf("<%s:%v>", n.name, n.spec)
}

// Builder assembles a node. Children, action and guard are attached after
// the kind is fixed by Literal or Argument.
type Builder struct {
	name     string
	kind     Kind
	spec     ArgumentSpec
	children []*Builder
	action   *Action
	guard    *Guard
}

// Literal starts a literal node.
func Literal(name string) *Builder {
	return &Builder{name: name, kind: KindLiteral}
}

// Argument starts a typed-argument node.
func Argument(name string, spec ArgumentSpec) *Builder {
	return &Builder{name: name, kind: KindArgument, spec: spec}
}

// Then appends a child.
func (b *Builder) Then(child *Builder) *Builder {
	b.children = append(b.children, child)
	return b
}

// Executes sets the action.
func (b *Builder) Executes(action *Action) *Builder {
	b.action = action
	return b
}

// Requires sets the guard.
func (b *Builder) Requires(guard *Guard) *Builder {
	b.guard = guard
	return b
}

// Name returns the name of the node being built.
func (b *Builder) Name() string { return b.name }

// Build validates the builder tree and returns the node.
func (b *Builder) Build() (*Node, error) {
	return b.build(nil)
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

func (b *Builder) build(parent []string) (*Node, error) {
	path := append(append([]string(nil), parent...), b.name)
	if b.name == "" {
		return nil, &InvalidNodeError{Path: strings.Join(path, "/"), Reason: "name is empty"}
	}
	switch b.kind {
	case KindLiteral:
		if b.spec != nil {
			return nil, &InvalidNodeError{Path: strings.Join(path, "/"), Reason: "literal node has an argument spec"}
		}
	case KindArgument:
		if b.spec == nil {
			return nil, &InvalidNodeError{Path: strings.Join(path, "/"), Reason: "argument node has no argument spec"}
		}
	default:
		return nil, &InvalidNodeError{Path: strings.Join(path, "/"), Reason: fmt.Sprintf("unknown kind %v", b.kind)}
	}

	n := &Node{
		name:   b.name,
		kind:   b.kind,
		spec:   b.spec,
		action: b.action,
		guard:  b.guard,
	}

	seen := make(map[string]bool, len(b.children))
	for _, cb := range b.children {
		if cb == nil {
			continue
		}
		if seen[cb.name] {
			return nil, &InvalidNodeError{
				Path:   strings.Join(append(path, cb.name), "/"),
				Reason: "duplicate sibling name",
			}
		}
		seen[cb.name] = true

		child, err := cb.build(path)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}

	return n, nil
}

// InvalidNodeError reports a builder tree that violates a node invariant.
type InvalidNodeError struct {
	Path   string
	Reason string
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("invalid node %q: %s", e.Path, e.Reason)
}
