package grammar

import (
	"fmt"
)

// MissingFieldError is returned when a required document field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field '%s'", e.Field)
}

// DuplicateChildError is returned when two siblings share a name.
type DuplicateChildError struct {
	Name string
}

func (e *DuplicateChildError) Error() string {
	return fmt.Sprintf("duplicate child '%s'", e.Name)
}

// NodeError locates an encode or decode failure in the tree.
type NodeError struct {
	// Path is the slash-separated node path, e.g. "test/value".
	Path string
	// Err is the underlying error.
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node '%s': %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *NodeError) Unwrap() error {
	return e.Err
}
