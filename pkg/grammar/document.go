// Package grammar converts command trees to and from their serialized
// document form.
//
// A document node looks like:
//
//	{
//	  "name": "test",
//	  "argument": {"type": "namespace:literal"},
//	  "children": [
//	    {
//	      "name": "value",
//	      "argument": {"type": "integer", "min": 0, "max": 1},
//	      "executes": "pkg.Cmd::run"
//	    }
//	  ]
//	}
//
// Encoder and Decoder share an argcodec.Registry for argument types. The
// Decoder additionally resolves "executes" and "requires" references through
// a handler.Resolver. Both either return a complete result or fail with a
// typed error wrapped in a NodeError that names the offending node.
package grammar

import (
	"github.com/CliForge/cmdgrammar/pkg/argcodec"
)

// Reserved argument types.
const (
	// LiteralType marks a literal node.
	LiteralType = "namespace:literal"
	// RootType marks a dispatcher root whose children are the commands.
	RootType = "namespace:root"
	// RootName is the name given to dispatcher root documents.
	RootName = "__root__"
)

// Document field names.
const (
	FieldName     = "name"
	FieldArgument = "argument"
	FieldType     = "argument.type"
	FieldChildren = "children"
	FieldExecutes = "executes"
	FieldRequires = "requires"

	argumentTypeKey = "type"
)

// Node is the serialized form of a command node.
type Node struct {
	// Name is the node name.
	Name string `json:"name" yaml:"name"`
	// Argument holds "type" and any type-specific keys.
	Argument argcodec.Record `json:"argument" yaml:"argument"`
	// Children are the child nodes in match order.
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	// Executes is the action reference. Nil means no action; a present but
	// empty reference still decodes to a fallback action.
	Executes *string `json:"executes,omitempty" yaml:"executes,omitempty"`
	// Requires is the guard reference, with the same rules as Executes.
	Requires *string `json:"requires,omitempty" yaml:"requires,omitempty"`
}

// Ref returns a pointer to ref for the Executes and Requires fields.
func Ref(ref string) *string {
	return &ref
}

// Type returns argument.type, or "" when absent or not a string.
func (n *Node) Type() string {
	if n.Argument == nil {
		return ""
	}
	t, _ := n.Argument[argumentTypeKey].(string)
	return t
}

// IsRoot reports whether n is a dispatcher root document.
func (n *Node) IsRoot() bool {
	return n.Type() == RootType
}
