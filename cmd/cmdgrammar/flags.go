package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// formatValue is a flag restricted to a fixed set of format names.
type formatValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*formatValue)(nil)

func newFormatValue(def string, allowed ...string) *formatValue {
	return &formatValue{value: def, allowed: allowed}
}

func (f *formatValue) String() string {
	return f.value
}

func (f *formatValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range f.allowed {
		if s == a {
			f.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(f.allowed, ", "))
}

func (f *formatValue) Type() string {
	return "format"
}

// usage returns the allowed values for help text.
func (f *formatValue) usage() string {
	return strings.Join(f.allowed, "|")
}
