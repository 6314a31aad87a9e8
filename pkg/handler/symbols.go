package handler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// Lookup finds the value bound to a symbol inside a qualifier. It returns an
// error wrapping ErrUnknownQualifier or ErrUnknownSymbol when either is
// missing.
type Lookup interface {
	Lookup(qualifier, symbol string) (interface{}, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(qualifier, symbol string) (interface{}, error)

// Lookup implements Lookup.
func (f LookupFunc) Lookup(qualifier, symbol string) (interface{}, error) {
	return f(qualifier, symbol)
}

// SymbolTable is a Lookup populated by the host application at startup.
type SymbolTable struct {
	units map[string]map[string]interface{}
	mu    sync.RWMutex
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		units: make(map[string]map[string]interface{}),
	}
}

// Define binds ref to value. The value should be an action or guard
// function; its signature is checked at resolution time.
func (t *SymbolTable) Define(ref string, value interface{}) error {
	r, err := ParseReference(ref)
	if err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("symbol '%s' cannot be bound to nil", ref)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	unit, ok := t.units[r.Qualifier]
	if !ok {
		unit = make(map[string]interface{})
		t.units[r.Qualifier] = unit
	}
	if _, exists := unit[r.Symbol]; exists {
		return fmt.Errorf("symbol '%s' is already defined", ref)
	}
	unit[r.Symbol] = value
	return nil
}

// DefineAction binds ref to an action function.
func (t *SymbolTable) DefineAction(ref string, fn tree.ActionFunc) error {
	return t.Define(ref, fn)
}

// DefineGuard binds ref to a guard function.
func (t *SymbolTable) DefineGuard(ref string, fn tree.GuardFunc) error {
	return t.Define(ref, fn)
}

// Lookup implements Lookup.
func (t *SymbolTable) Lookup(qualifier, symbol string) (interface{}, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	unit, ok := t.units[qualifier]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownQualifier, qualifier)
	}
	value, ok := unit[symbol]
	if !ok {
		return nil, fmt.Errorf("%w '%s' in '%s'", ErrUnknownSymbol, symbol, qualifier)
	}
	return value, nil
}

// References returns every defined reference in sorted order.
func (t *SymbolTable) References() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var refs []string
	for q, unit := range t.units {
		for s := range unit {
			refs = append(refs, Reference{Qualifier: q, Symbol: s}.String())
		}
	}
	sort.Strings(refs)
	return refs
}

// Len returns the number of defined symbols.
func (t *SymbolTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, unit := range t.units {
		n += len(unit)
	}
	return n
}
