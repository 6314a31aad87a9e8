// Package handler resolves qualifier::symbol references into action and
// guard handles.
//
// Resolution is late-bound against a Lookup supplied by the host
// application, usually a SymbolTable filled at startup. A reference that
// cannot be resolved never fails the caller: the resolver returns a
// fallback handle carrying a tree.Diagnostic and reports that diagnostic
// once through its logger and optional callback. This keeps trees loadable
// for inspection when the referenced code is absent.
package handler

import (
	"fmt"
	"log/slog"

	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Logger receives one warning per unresolved reference.
	Logger *slog.Logger
	// OnDiagnostic, if set, is called once per unresolved reference.
	OnDiagnostic func(*tree.Diagnostic)
}

// Resolver turns reference strings into handles.
type Resolver struct {
	lookup Lookup
	config *ResolverConfig
}

// NewResolver creates a resolver over lookup. A nil lookup resolves
// nothing, which suits trees decoded only for inspection.
func NewResolver(lookup Lookup, config *ResolverConfig) *Resolver {
	if config == nil {
		config = &ResolverConfig{}
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		lookup: lookup,
		config: config,
	}
}

// ResolveAction returns the action bound to ref, or a fallback action that
// returns 0.
func (r *Resolver) ResolveAction(ref string) *tree.Action {
	value, err := r.find(ref)
	if err == nil {
		if fn, ok := asAction(value); ok {
			return tree.NewAction(ref, fn)
		}
		err = fmt.Errorf("%w: '%s' is %T, want func(*tree.Context) int", ErrSignatureMismatch, ref, value)
	}
	return tree.FallbackAction(ref, r.report(ref, tree.HandleAction, err))
}

// ResolveGuard returns the guard bound to ref, or a fallback guard that
// denies.
func (r *Resolver) ResolveGuard(ref string) *tree.Guard {
	value, err := r.find(ref)
	if err == nil {
		if fn, ok := asGuard(value); ok {
			return tree.NewGuard(ref, fn)
		}
		err = fmt.Errorf("%w: '%s' is %T, want func(*tree.Context) bool", ErrSignatureMismatch, ref, value)
	}
	return tree.FallbackGuard(ref, r.report(ref, tree.HandleGuard, err))
}

func (r *Resolver) find(ref string) (interface{}, error) {
	parsed, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}
	if r.lookup == nil {
		return nil, fmt.Errorf("%w '%s': no symbols available", ErrUnknownQualifier, parsed.Qualifier)
	}
	return r.lookup.Lookup(parsed.Qualifier, parsed.Symbol)
}

func (r *Resolver) report(ref string, kind tree.HandleKind, cause error) *tree.Diagnostic {
	diag := &tree.Diagnostic{Reference: ref, Kind: kind, Cause: cause}

	r.config.Logger.Warn("unresolved handler reference",
		"reference", ref,
		"kind", string(kind),
		"error", cause)

	if r.config.OnDiagnostic != nil {
		r.config.OnDiagnostic(diag)
	}
	return diag
}

func asAction(v interface{}) (tree.ActionFunc, bool) {
	switch fn := v.(type) {
	case tree.ActionFunc:
		return fn, fn != nil
	case func(*tree.Context) int:
		return fn, fn != nil
	default:
		return nil, false
	}
}

func asGuard(v interface{}) (tree.GuardFunc, bool) {
	switch fn := v.(type) {
	case tree.GuardFunc:
		return fn, fn != nil
	case func(*tree.Context) bool:
		return fn, fn != nil
	default:
		return nil, false
	}
}
