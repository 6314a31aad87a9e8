package argcodec

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/CliForge/cmdgrammar/pkg/tree"
)

// Record keys used by the built-in codecs.
const (
	KeyMin        = "min"
	KeyMax        = "max"
	KeyStringType = "string_type"
)

// builtinCodecs returns the codecs for the built-in argument specs.
func builtinCodecs() map[string]Codec {
	return map[string]Codec{
		tree.TypeInteger: {Encode: encodeInteger, Decode: decodeInteger},
		tree.TypeLong:    {Encode: encodeLong, Decode: decodeLong},
		tree.TypeDouble:  {Encode: encodeDouble, Decode: decodeDouble},
		tree.TypeFloat:   {Encode: encodeFloat, Decode: decodeFloat},
		tree.TypeBoolean: {Encode: encodeBoolean, Decode: decodeBoolean},
		tree.TypeString:  {Encode: encodeString, Decode: decodeString},
	}
}

// Bounds are written only when they differ from the type's natural extreme,
// and absent bounds decode to that extreme.

func encodeInteger(spec tree.ArgumentSpec) (Record, error) {
	arg, ok := spec.(tree.IntegerArg)
	if !ok {
		return nil, unexpectedSpec(tree.TypeInteger, spec)
	}
	rec := Record{}
	if arg.Min != math.MinInt32 {
		rec[KeyMin] = arg.Min
	}
	if arg.Max != math.MaxInt32 {
		rec[KeyMax] = arg.Max
	}
	return rec, nil
}

func decodeInteger(rec Record) (tree.ArgumentSpec, error) {
	min, err := intField(tree.TypeInteger, rec, KeyMin, math.MinInt32, math.MinInt32, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	max, err := intField(tree.TypeInteger, rec, KeyMax, math.MaxInt32, math.MinInt32, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, inverted(tree.TypeInteger, min, max)
	}
	return tree.IntegerRange(int32(min), int32(max)), nil
}

func encodeLong(spec tree.ArgumentSpec) (Record, error) {
	arg, ok := spec.(tree.LongArg)
	if !ok {
		return nil, unexpectedSpec(tree.TypeLong, spec)
	}
	rec := Record{}
	if arg.Min != math.MinInt64 {
		rec[KeyMin] = arg.Min
	}
	if arg.Max != math.MaxInt64 {
		rec[KeyMax] = arg.Max
	}
	return rec, nil
}

func decodeLong(rec Record) (tree.ArgumentSpec, error) {
	min, err := intField(tree.TypeLong, rec, KeyMin, math.MinInt64, math.MinInt64, math.MaxInt64)
	if err != nil {
		return nil, err
	}
	max, err := intField(tree.TypeLong, rec, KeyMax, math.MaxInt64, math.MinInt64, math.MaxInt64)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, inverted(tree.TypeLong, min, max)
	}
	return tree.LongRange(min, max), nil
}

func encodeDouble(spec tree.ArgumentSpec) (Record, error) {
	arg, ok := spec.(tree.DoubleArg)
	if !ok {
		return nil, unexpectedSpec(tree.TypeDouble, spec)
	}
	rec := Record{}
	if arg.Min != -math.MaxFloat64 {
		rec[KeyMin] = arg.Min
	}
	if arg.Max != math.MaxFloat64 {
		rec[KeyMax] = arg.Max
	}
	return rec, nil
}

func decodeDouble(rec Record) (tree.ArgumentSpec, error) {
	min, err := floatField(tree.TypeDouble, rec, KeyMin, -math.MaxFloat64, math.MaxFloat64)
	if err != nil {
		return nil, err
	}
	max, err := floatField(tree.TypeDouble, rec, KeyMax, math.MaxFloat64, math.MaxFloat64)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, inverted(tree.TypeDouble, min, max)
	}
	return tree.DoubleRange(min, max), nil
}

func encodeFloat(spec tree.ArgumentSpec) (Record, error) {
	arg, ok := spec.(tree.FloatArg)
	if !ok {
		return nil, unexpectedSpec(tree.TypeFloat, spec)
	}
	rec := Record{}
	if arg.Min != -math.MaxFloat32 {
		rec[KeyMin] = arg.Min
	}
	if arg.Max != math.MaxFloat32 {
		rec[KeyMax] = arg.Max
	}
	return rec, nil
}

func decodeFloat(rec Record) (tree.ArgumentSpec, error) {
	min, err := floatField(tree.TypeFloat, rec, KeyMin, -math.MaxFloat32, math.MaxFloat32)
	if err != nil {
		return nil, err
	}
	max, err := floatField(tree.TypeFloat, rec, KeyMax, math.MaxFloat32, math.MaxFloat32)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, inverted(tree.TypeFloat, min, max)
	}
	return tree.FloatRange(float32(min), float32(max)), nil
}

func encodeBoolean(spec tree.ArgumentSpec) (Record, error) {
	if _, ok := spec.(tree.BoolArg); !ok {
		return nil, unexpectedSpec(tree.TypeBoolean, spec)
	}
	return Record{}, nil
}

func decodeBoolean(Record) (tree.ArgumentSpec, error) {
	return tree.Bool(), nil
}

func encodeString(spec tree.ArgumentSpec) (Record, error) {
	arg, ok := spec.(tree.StringArg)
	if !ok {
		return nil, unexpectedSpec(tree.TypeString, spec)
	}
	switch arg.Mode {
	case tree.SingleWord, tree.GreedyPhrase, tree.QuotedOrWord:
		return Record{KeyStringType: arg.Mode.String()}, nil
	default:
		return nil, &MalformedArgumentError{
			Type:   tree.TypeString,
			Field:  KeyStringType,
			Value:  int(arg.Mode),
			Reason: "unknown string mode",
		}
	}
}

func decodeString(rec Record) (tree.ArgumentSpec, error) {
	v, ok := rec[KeyStringType]
	if !ok || v == nil {
		return tree.String(), nil
	}
	// Scalar tags are read as text; anything unrecognized is a quoted string.
	switch fmt.Sprint(v) {
	case "word":
		return tree.Word(), nil
	case "greedy":
		return tree.Greedy(), nil
	default:
		return tree.String(), nil
	}
}

// intField reads an integral bound. Integral floats such as 3.0 are
// accepted; fractional values and values outside [lo, hi] are not.
func intField(typeID string, rec Record, key string, def, lo, hi int64) (int64, error) {
	v, ok := rec[key]
	if !ok {
		return def, nil
	}

	n, reason := toInt64(v)
	if reason != "" {
		return 0, &MalformedArgumentError{Type: typeID, Field: key, Value: v, Reason: reason}
	}
	if n < lo || n > hi {
		return 0, &MalformedArgumentError{
			Type:   typeID,
			Field:  key,
			Value:  v,
			Reason: fmt.Sprintf("out of range [%d, %d]", lo, hi),
		}
	}
	return n, nil
}

// floatField reads a floating-point bound limited to [-limit, limit].
func floatField(typeID string, rec Record, key string, def, limit float64) (float64, error) {
	v, ok := rec[key]
	if !ok {
		return def, nil
	}

	f, reason := toFloat64(v)
	if reason != "" {
		return 0, &MalformedArgumentError{Type: typeID, Field: key, Value: v, Reason: reason}
	}
	if math.IsNaN(f) || f < -limit || f > limit {
		return 0, &MalformedArgumentError{
			Type:   typeID,
			Field:  key,
			Value:  v,
			Reason: fmt.Sprintf("out of range [%g, %g]", -limit, limit),
		}
	}
	return f, nil
}

// toInt64 converts the numeric representations produced by encoding/json
// (with UseNumber), yaml.v3 and Go callers. A non-empty reason means the
// value is unusable.
func toInt64(v interface{}) (int64, string) {
	switch n := v.(type) {
	case int:
		return int64(n), ""
	case int8:
		return int64(n), ""
	case int16:
		return int64(n), ""
	case int32:
		return int64(n), ""
	case int64:
		return n, ""
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), ""
	case uint16:
		return int64(n), ""
	case uint32:
		return int64(n), ""
	case uint64:
		return uintToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, ""
		}
		f, err := n.Float64()
		if err != nil {
			return 0, "not a number"
		}
		return floatToInt64(f)
	case nil:
		return 0, "must not be null"
	default:
		return 0, fmt.Sprintf("expected a number, got %T", v)
	}
}

func uintToInt64(n uint64) (int64, string) {
	if n > math.MaxInt64 {
		return 0, "out of range"
	}
	return int64(n), ""
}

func floatToInt64(f float64) (int64, string) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, "must be an integer"
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, "out of range"
	}
	return int64(f), ""
}

func toFloat64(v interface{}) (float64, string) {
	switch n := v.(type) {
	case float64:
		return n, ""
	case float32:
		return float64(n), ""
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, "not a number"
		}
		return f, ""
	case nil:
		return 0, "must not be null"
	}
	if i, reason := toInt64(v); reason == "" {
		return float64(i), ""
	}
	return 0, fmt.Sprintf("expected a number, got %T", v)
}

func unexpectedSpec(typeID string, spec tree.ArgumentSpec) error {
	return &MalformedArgumentError{
		Type:   typeID,
		Value:  spec,
		Reason: fmt.Sprintf("codec cannot encode %T", spec),
	}
}

func inverted(typeID string, min, max interface{}) error {
	return &MalformedArgumentError{
		Type:   typeID,
		Field:  KeyMin,
		Value:  min,
		Reason: fmt.Sprintf("greater than max %v", max),
	}
}
