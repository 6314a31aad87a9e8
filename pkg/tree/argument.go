package tree

import (
	"fmt"
	"math"
)

// Built-in argument type identifiers.
const (
	TypeInteger = "integer"
	TypeLong    = "long"
	TypeDouble  = "double"
	TypeFloat   = "float"
	TypeBoolean = "boolean"
	TypeString  = "string"
)

// ArgumentSpec describes the value domain accepted by an argument node.
//
// The built-in specs below form a closed set handled exhaustively by the
// argcodec package. Other types implement ArgumentSpec themselves and are
// served by codecs registered at startup.
type ArgumentSpec interface {
	// TypeID returns the registered argument-type identifier.
	TypeID() string
}

// IntegerArg is a 32-bit integer argument. Unset bounds hold the natural
// extremes of int32.
type IntegerArg struct {
	Min int32
	Max int32
}

// Integer returns an unbounded integer argument.
func Integer() IntegerArg {
	return IntegerArg{Min: math.MinInt32, Max: math.MaxInt32}
}

// IntegerMin returns an integer argument bounded below.
func IntegerMin(min int32) IntegerArg {
	return IntegerArg{Min: min, Max: math.MaxInt32}
}

// IntegerRange returns an integer argument bounded on both sides.
func IntegerRange(min, max int32) IntegerArg {
	return IntegerArg{Min: min, Max: max}
}

// TypeID implements ArgumentSpec.
func (IntegerArg) TypeID() string { return TypeInteger }

func (a IntegerArg) String() string {
	return fmt.Sprintf("integer%s", formatBounds(a.Min != math.MinInt32, a.Max != math.MaxInt32, a.Min, a.Max))
}

// LongArg is a 64-bit integer argument.
type LongArg struct {
	Min int64
	Max int64
}

// Long returns an unbounded long argument.
func Long() LongArg {
	return LongArg{Min: math.MinInt64, Max: math.MaxInt64}
}

// LongMin returns a long argument bounded below.
func LongMin(min int64) LongArg {
	return LongArg{Min: min, Max: math.MaxInt64}
}

// LongRange returns a long argument bounded on both sides.
func LongRange(min, max int64) LongArg {
	return LongArg{Min: min, Max: max}
}

// TypeID implements ArgumentSpec.
func (LongArg) TypeID() string { return TypeLong }

func (a LongArg) String() string {
	return fmt.Sprintf("long%s", formatBounds(a.Min != math.MinInt64, a.Max != math.MaxInt64, a.Min, a.Max))
}

// DoubleArg is a float64 argument. The natural extremes are
// -math.MaxFloat64 and math.MaxFloat64.
type DoubleArg struct {
	Min float64
	Max float64
}

// Double returns an unbounded double argument.
func Double() DoubleArg {
	return DoubleArg{Min: -math.MaxFloat64, Max: math.MaxFloat64}
}

// DoubleMin returns a double argument bounded below.
func DoubleMin(min float64) DoubleArg {
	return DoubleArg{Min: min, Max: math.MaxFloat64}
}

// DoubleRange returns a double argument bounded on both sides.
func DoubleRange(min, max float64) DoubleArg {
	return DoubleArg{Min: min, Max: max}
}

// TypeID implements ArgumentSpec.
func (DoubleArg) TypeID() string { return TypeDouble }

func (a DoubleArg) String() string {
	return fmt.Sprintf("double%s", formatBounds(a.Min != -math.MaxFloat64, a.Max != math.MaxFloat64, a.Min, a.Max))
}

// FloatArg is a float32 argument.
type FloatArg struct {
	Min float32
	Max float32
}

// Float returns an unbounded float argument.
func Float() FloatArg {
	return FloatArg{Min: -math.MaxFloat32, Max: math.MaxFloat32}
}

// FloatMin returns a float argument bounded below.
func FloatMin(min float32) FloatArg {
	return FloatArg{Min: min, Max: math.MaxFloat32}
}

// FloatRange returns a float argument bounded on both sides.
func FloatRange(min, max float32) FloatArg {
	return FloatArg{Min: min, Max: max}
}

// TypeID implements ArgumentSpec.
func (FloatArg) TypeID() string { return TypeFloat }

func (a FloatArg) String() string {
	return fmt.Sprintf("float%s", formatBounds(a.Min != -math.MaxFloat32, a.Max != math.MaxFloat32, a.Min, a.Max))
}

// BoolArg is a boolean argument.
type BoolArg struct{}

// Bool returns a boolean argument.
func Bool() BoolArg { return BoolArg{} }

// TypeID implements ArgumentSpec.
func (BoolArg) TypeID() string { return TypeBoolean }

func (BoolArg) String() string { return TypeBoolean }

// StringMode controls how much input a string argument consumes.
type StringMode int

const (
	// QuotedOrWord accepts a single word or a quoted phrase.
	QuotedOrWord StringMode = iota
	// SingleWord accepts one unquoted word.
	SingleWord
	// GreedyPhrase consumes the rest of the line.
	GreedyPhrase
)

func (m StringMode) String() string {
	switch m {
	case SingleWord:
		return "word"
	case GreedyPhrase:
		return "greedy"
	case QuotedOrWord:
		return "string"
	default:
		return fmt.Sprintf("StringMode(%d)", int(m))
	}
}

// StringArg is a string argument.
type StringArg struct {
	Mode StringMode
}

// Word returns a single-word string argument.
func Word() StringArg { return StringArg{Mode: SingleWord} }

// String returns a quotable string argument.
func String() StringArg { return StringArg{Mode: QuotedOrWord} }

// Greedy returns a string argument consuming the rest of the input.
func Greedy() StringArg { return StringArg{Mode: GreedyPhrase} }

// TypeID implements ArgumentSpec.
func (StringArg) TypeID() string { return TypeString }

func (a StringArg) String() string {
	return fmt.Sprintf("string(%s)", a.Mode)
}

func formatBounds(hasMin, hasMax bool, min, max interface{}) string {
	switch {
	case hasMin && hasMax:
		return fmt.Sprintf(" %v..%v", min, max)
	case hasMin:
		return fmt.Sprintf(" >=%v", min)
	case hasMax:
		return fmt.Sprintf(" <=%v", max)
	default:
		return ""
	}
}
