package tree

import "fmt"

// Context is the match context handed to actions and guards. Its contents
// are owned by the dispatch engine that runs the tree.
type Context struct {
	// Source identifies who issued the command.
	Source interface{}
	// Input is the raw command line being matched.
	Input string
	// Arguments holds parsed argument values keyed by node name.
	Arguments map[string]interface{}
}

// ActionFunc runs a matched command and returns its result code.
type ActionFunc func(ctx *Context) int

// GuardFunc reports whether a node and its subtree may be used.
type GuardFunc func(ctx *Context) bool

// HandleKind distinguishes action handles from guard handles.
type HandleKind string

const (
	HandleAction HandleKind = "action"
	HandleGuard  HandleKind = "guard"
)

// Diagnostic describes a handler reference that could not be resolved.
type Diagnostic struct {
	// Reference is the original reference string.
	Reference string
	// Kind is the kind of handle that was requested.
	Kind HandleKind
	// Cause is the resolution failure.
	Cause error
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("unresolved %s %q: %v", d.Kind, d.Reference, d.Cause)
}

// Action is an executable handle. It keeps the reference string it was
// resolved from so the tree can be serialized again.
type Action struct {
	// Ref is the originating qualifier::symbol reference.
	Ref string
	// Diagnostic is set when the reference could not be resolved and this
	// handle is a fallback.
	Diagnostic *Diagnostic

	fn ActionFunc
}

// NewAction binds a reference string to a function.
func NewAction(ref string, fn ActionFunc) *Action {
	return &Action{Ref: ref, fn: fn}
}

// FallbackAction returns an action that always yields result code 0.
func FallbackAction(ref string, diag *Diagnostic) *Action {
	return &Action{Ref: ref, Diagnostic: diag}
}

// Run invokes the action.
func (a *Action) Run(ctx *Context) int {
	if a.fn == nil {
		return 0
	}
	return a.fn(ctx)
}

// Fallback reports whether this is a substitute for an unresolved reference.
func (a *Action) Fallback() bool {
	return a.Diagnostic != nil
}

// Guard is a permission predicate handle.
type Guard struct {
	// Ref is the originating qualifier::symbol reference.
	Ref string
	// Diagnostic is set on fallback guards.
	Diagnostic *Diagnostic

	fn GuardFunc
}

// NewGuard binds a reference string to a predicate.
func NewGuard(ref string, fn GuardFunc) *Guard {
	return &Guard{Ref: ref, fn: fn}
}

// FallbackGuard returns a guard that always denies.
func FallbackGuard(ref string, diag *Diagnostic) *Guard {
	return &Guard{Ref: ref, Diagnostic: diag}
}

// Allows evaluates the predicate.
func (g *Guard) Allows(ctx *Context) bool {
	if g.fn == nil {
		return false
	}
	return g.fn(ctx)
}

// Fallback reports whether this is a substitute for an unresolved reference.
func (g *Guard) Fallback() bool {
	return g.Diagnostic != nil
}
