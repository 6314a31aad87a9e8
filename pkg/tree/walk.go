package tree

import (
	"errors"
	"reflect"
)

// SkipChildren can be returned from a WalkFunc to skip a node's subtree.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk. path holds the names
// from the root down to and including n.
type WalkFunc func(path []string, n *Node) error

// Walk visits root and its descendants depth-first in child order.
func Walk(root *Node, fn WalkFunc) error {
	if root == nil {
		return nil
	}
	err := walk(nil, root, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walk(parent []string, n *Node, fn WalkFunc) error {
	path := append(append([]string(nil), parent...), n.name)
	if err := fn(path, n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range n.children {
		if err := walk(path, c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two trees describe the same grammar. It compares
// names, kinds, argument specs and children pairwise in order. Actions and
// guards are compared by presence only, since re-resolving a reference may
// bind a different but equivalent handle.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.name != b.name || a.kind != b.kind {
		return false
	}
	if !SpecEqual(a.spec, b.spec) {
		return false
	}
	if (a.action != nil) != (b.action != nil) {
		return false
	}
	if (a.guard != nil) != (b.guard != nil) {
		return false
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// SpecEqual compares two argument specs. Specs providing an
// Equal(ArgumentSpec) bool method are compared with it.
func SpecEqual(a, b ArgumentSpec) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(interface{ Equal(ArgumentSpec) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// Visible returns a copy of root restricted to the nodes usable from ctx.
// A guard that denies removes the node together with its whole subtree.
// Visible returns nil when root itself is denied.
func Visible(root *Node, ctx *Context) *Node {
	if root == nil || !root.CanUse(ctx) {
		return nil
	}
	cp := *root
	cp.children = nil
	for _, c := range root.children {
		if v := Visible(c, ctx); v != nil {
			cp.children = append(cp.children, v)
		}
	}
	return &cp
}

// Diagnostics collects the diagnostics of all fallback handles in the tree.
func Diagnostics(root *Node) []*Diagnostic {
	var diags []*Diagnostic
	_ = Walk(root, func(_ []string, n *Node) error {
		if n.action != nil && n.action.Diagnostic != nil {
			diags = append(diags, n.action.Diagnostic)
		}
		if n.guard != nil && n.guard.Diagnostic != nil {
			diags = append(diags, n.guard.Diagnostic)
		}
		return nil
	})
	return diags
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	count := 0
	_ = Walk(root, func(_ []string, _ *Node) error {
		count++
		return nil
	})
	return count
}
