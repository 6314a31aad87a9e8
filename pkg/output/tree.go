package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// TreeFormatter renders command trees as an indented tree view.
type TreeFormatter struct{}

// NewTreeFormatter creates a new tree formatter.
func NewTreeFormatter() *TreeFormatter {
	return &TreeFormatter{}
}

// Name returns the formatter name.
func (f *TreeFormatter) Name() string {
	return "tree"
}

// Supports returns true for a *tree.Node or a []*tree.Node.
func (f *TreeFormatter) Supports(data interface{}) bool {
	switch d := data.(type) {
	case *tree.Node:
		return d != nil
	case []*tree.Node:
		return true
	default:
		return false
	}
}

// Format renders the tree and writes it to the writer.
func (f *TreeFormatter) Format(w io.Writer, data interface{}, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}

	var roots []*tree.Node
	switch d := data.(type) {
	case *tree.Node:
		roots = []*tree.Node{d}
	case []*tree.Node:
		roots = d
	default:
		return fmt.Errorf("unsupported data type for tree formatting: %T", data)
	}

	if !config.Colors {
		pterm.DisableColor()
		defer pterm.EnableColor()
	}

	root := pterm.TreeNode{}
	for _, n := range roots {
		if n != nil {
			root.Children = append(root.Children, treeNode(n, config))
		}
	}

	rendered, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return fmt.Errorf("failed to render tree: %w", err)
	}

	_, err = io.WriteString(w, rendered)
	return err
}

func treeNode(n *tree.Node, config *FormatConfig) pterm.TreeNode {
	node := pterm.TreeNode{Text: Label(n, config.ShowHandles)}
	for _, c := range n.Children() {
		node.Children = append(node.Children, treeNode(c, config))
	}
	return node
}

// Label returns the one-line description of n used in tree views.
func Label(n *tree.Node, showHandles bool) string {
	var b strings.Builder
	b.WriteString(n.String())

	if !showHandles {
		return b.String()
	}
	if a := n.Action(); a != nil {
		fmt.Fprintf(&b, " executes=%s", a.Ref)
		if a.Fallback() {
			b.WriteString(" (unresolved)")
		}
	}
	if g := n.Guard(); g != nil {
		fmt.Fprintf(&b, " requires=%s", g.Ref)
		if g.Fallback() {
			b.WriteString(" (unresolved)")
		}
	}
	return b.String()
}
