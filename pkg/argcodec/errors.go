package argcodec

import (
	"errors"
	"fmt"
)

// ErrRegistryFrozen is returned by Register after Freeze has been called.
var ErrRegistryFrozen = errors.New("argument type registry is frozen")

// DuplicateTypeError is returned when a type identifier is registered twice.
type DuplicateTypeError struct {
	Type string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("argument type '%s' is already registered", e.Type)
}

// UnknownTypeError is returned when no codec is registered for a type.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("argument type '%s' not found", e.Type)
}

// MalformedArgumentError is returned by a codec when a record or spec does
// not describe a valid argument of its type.
type MalformedArgumentError struct {
	// Type is the argument type identifier.
	Type string
	// Field is the offending record key, empty when the whole value is wrong.
	Field string
	// Value is the offending value.
	Value interface{}
	// Reason explains what is wrong.
	Reason string
}

func (e *MalformedArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed %s argument: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("malformed %s argument: field '%s' (%v): %s", e.Type, e.Field, e.Value, e.Reason)
}
