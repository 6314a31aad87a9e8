// Package argcodec maps argument-type identifiers to the functions that
// encode argument specs into generic records and decode them back.
//
// A Registry starts with codecs for the built-in types (integer, long,
// double, float, boolean, string). Applications register codecs for their
// own argument types during startup and may then Freeze the registry:
//
//	reg := argcodec.NewRegistry()
//	if err := reg.Register("geo:coordinate", coordinateCodec); err != nil {
//	    return err
//	}
//	reg.Freeze()
//
// After initialization a registry is safe for concurrent lookups.
package argcodec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// Record is the generic key/value form of an argument spec. It excludes the
// "type" key, which is owned by the tree encoder.
type Record map[string]interface{}

// EncodeFunc converts a spec into its record form.
type EncodeFunc func(spec tree.ArgumentSpec) (Record, error)

// DecodeFunc builds a spec from its record form.
type DecodeFunc func(rec Record) (tree.ArgumentSpec, error)

// Codec is a matched encode/decode pair for one argument type.
type Codec struct {
	Encode EncodeFunc
	Decode DecodeFunc
}

// Registry holds the codecs by type identifier.
type Registry struct {
	codecs map[string]Codec
	frozen bool
	mu     sync.RWMutex
}

// NewRegistry creates a registry with the built-in codecs registered.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for typeID, codec := range builtinCodecs() {
		r.codecs[typeID] = codec
	}
	return r
}

// NewEmptyRegistry creates a registry without any codecs.
func NewEmptyRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Codec),
	}
}

// Register adds a codec. Registering an existing type identifier fails and
// leaves the first registration active.
func (r *Registry) Register(typeID string, codec Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("cannot register '%s': %w", typeID, ErrRegistryFrozen)
	}

	if typeID == "" {
		return fmt.Errorf("argument type identifier cannot be empty")
	}

	if codec.Encode == nil || codec.Decode == nil {
		return fmt.Errorf("codec for '%s' must provide both encode and decode", typeID)
	}

	// Check if already registered
	if _, exists := r.codecs[typeID]; exists {
		return &DuplicateTypeError{Type: typeID}
	}

	r.codecs[typeID] = codec
	return nil
}

// RegisterFuncs is a shorthand for Register with a Codec literal.
func (r *Registry) RegisterFuncs(typeID string, encode EncodeFunc, decode DecodeFunc) error {
	return r.Register(typeID, Codec{Encode: encode, Decode: decode})
}

// Freeze makes the registry read-only. Further Register calls fail with
// ErrRegistryFrozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get retrieves the codec for a type identifier.
func (r *Registry) Get(typeID string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, exists := r.codecs[typeID]
	if !exists {
		return Codec{}, &UnknownTypeError{Type: typeID}
	}
	return codec, nil
}

// Has reports whether a codec is registered for typeID.
func (r *Registry) Has(typeID string) bool {
	_, err := r.Get(typeID)
	return err == nil
}

// Types returns the registered type identifiers in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.codecs))
	for typeID := range r.codecs {
		types = append(types, typeID)
	}
	sort.Strings(types)
	return types
}

// Encode encodes spec with the codec registered for spec.TypeID().
func (r *Registry) Encode(spec tree.ArgumentSpec) (Record, error) {
	if spec == nil {
		return nil, fmt.Errorf("cannot encode nil argument spec")
	}

	codec, err := r.Get(spec.TypeID())
	if err != nil {
		return nil, err
	}

	rec, err := codec.Encode(spec)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// Decode decodes rec with the codec registered for typeID.
func (r *Registry) Decode(typeID string, rec Record) (tree.ArgumentSpec, error) {
	codec, err := r.Get(typeID)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		rec = Record{}
	}

	spec, err := codec.Decode(rec)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, &MalformedArgumentError{Type: typeID, Reason: "codec returned no spec"}
	}
	return spec, nil
}
