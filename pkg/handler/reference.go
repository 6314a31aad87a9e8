package handler

import (
	"errors"
	"fmt"
	"strings"
)

// Separator splits a reference into qualifier and symbol.
const Separator = "::"

// Resolution failure causes carried by diagnostics.
var (
	ErrMalformedReference = errors.New("malformed handler reference")
	ErrUnknownQualifier   = errors.New("unknown qualifier")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// Reference is a parsed qualifier::symbol handler reference.
type Reference struct {
	// Qualifier names the unit holding the symbol, e.g. "pkg.Cmd".
	Qualifier string
	// Symbol names the callable within the unit.
	Symbol string
}

func (r Reference) String() string {
	return r.Qualifier + Separator + r.Symbol
}

// MalformedReferenceError is returned by ParseReference.
type MalformedReferenceError struct {
	Ref    string
	Reason string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("malformed handler reference %q: %s", e.Ref, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedReference.
func (e *MalformedReferenceError) Unwrap() error {
	return ErrMalformedReference
}

// ParseReference splits ref on its last "::". Both sides must be non-empty.
func ParseReference(ref string) (Reference, error) {
	i := strings.LastIndex(ref, Separator)
	if i < 0 {
		return Reference{}, &MalformedReferenceError{Ref: ref, Reason: "missing '::' separator"}
	}

	r := Reference{Qualifier: ref[:i], Symbol: ref[i+len(Separator):]}
	if r.Qualifier == "" {
		return Reference{}, &MalformedReferenceError{Ref: ref, Reason: "empty qualifier"}
	}
	if r.Symbol == "" {
		return Reference{}, &MalformedReferenceError{Ref: ref, Reason: "empty symbol"}
	}
	return r, nil
}
