package natsuzora

import (
	"encoding/json"
	"fmt"
	"math"
)

// Integer range: values must lie in [-(2^53-1), 2^53-1], matching
// JavaScript's safe integer range.
const (
	MinInteger int64 = -(1<<53 - 1)
	MaxInteger int64 = 1<<53 - 1
)

// Value is the runtime value model: a closed, six-case sum type. It is
// built once from JSON-shaped data and never needs to represent
// anything outside those six cases, so a sealed interface plus a type
// switch is enough; there's no need for a reflection-based wrapper
// over arbitrary host structs.
type Value interface {
	// TypeName returns a short, human-readable type name used in
	// TypeError messages (e.g. "Hash", "Array", "NilClass").
	TypeName() string

	// isValue seals the interface to this package's implementations.
	isValue()
}

type (
	// NullValue is the singular representation of JSON null.
	NullValue struct{}

	// BoolValue wraps a boolean.
	BoolValue bool

	// IntegerValue wraps an in-range integer.
	IntegerValue int64

	// StringValue wraps a UTF-8 string.
	StringValue string

	// ArrayValue is an ordered sequence of Values.
	ArrayValue []Value

	// ObjectValue is a string-keyed mapping of Values; insertion
	// order is not significant.
	ObjectValue map[string]Value
)

func (NullValue) isValue()    {}
func (BoolValue) isValue()    {}
func (IntegerValue) isValue() {}
func (StringValue) isValue()  {}
func (ArrayValue) isValue()   {}
func (ObjectValue) isValue()  {}

func (NullValue) TypeName() string    { return "NilClass" }
func (b BoolValue) TypeName() string {
	if bool(b) {
		return "TrueClass"
	}
	return "FalseClass"
}
func (IntegerValue) TypeName() string { return "Integer" }
func (StringValue) TypeName() string  { return "String" }
func (ArrayValue) TypeName() string   { return "Array" }
func (ObjectValue) TypeName() string  { return "Hash" }

// FromJSON converts an already-decoded JSON tree (as produced by
// encoding/json into map[string]any/[]any/string/bool/float64/
// json.Number/nil, or the equivalent Go-native shapes) into a Value.
// JSON decoding itself is outside this package's scope; FromJSON only
// validates and retags what it is handed.
//
// Integers outside [MinInteger, MaxInteger] fail with a TypeError at
// ingest. A floating-point number is accepted only when it is exactly
// representable as an in-range integer (fract == 0); any other float
// is rejected, since the language has no non-integer numeric type.
func FromJSON(v interface{}) (Value, error) {
	return fromJSON(v, Location{})
}

func fromJSON(v interface{}, loc Location) (Value, error) {
	switch t := v.(type) {
	case nil:
		return NullValue{}, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return integerFromJSONNumber(t, loc)
	case float64:
		return integerFromFloat(t, loc)
	case float32:
		return integerFromFloat(float64(t), loc)
	case int:
		return integerFromInt64(int64(t), loc)
	case int32:
		return integerFromInt64(int64(t), loc)
	case int64:
		return integerFromInt64(t, loc)
	case []interface{}:
		out := make(ArrayValue, 0, len(t))
		for _, elem := range t {
			ev, err := fromJSON(elem, loc)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil
	case []Value:
		return ArrayValue(t), nil
	case map[string]interface{}:
		out := make(ObjectValue, len(t))
		for k, elem := range t {
			ev, err := fromJSON(elem, loc)
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	case map[string]Value:
		return ObjectValue(t), nil
	case Value:
		return t, nil
	default:
		return nil, newErr(KindTypeError, loc, "cannot convert %T to a template value", v)
	}
}

func integerFromJSONNumber(n json.Number, loc Location) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return integerFromInt64(i, loc)
	}
	f, err := n.Float64()
	if err != nil {
		return nil, newErr(KindTypeError, loc, "invalid number literal %q", string(n))
	}
	return integerFromFloat(f, loc)
}

func integerFromFloat(f float64, loc Location) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, newErr(KindTypeError, loc, "floating point numbers are not supported: %v", f)
	}
	if f != math.Trunc(f) {
		return nil, newErr(KindTypeError, loc, "floating point numbers are not supported: %v", f)
	}
	return integerFromInt64(int64(f), loc)
}

func integerFromInt64(i int64, loc Location) (Value, error) {
	if i < MinInteger || i > MaxInteger {
		return nil, newErr(KindTypeError, loc, "integer out of range: %d", i)
	}
	return IntegerValue(i), nil
}

// IsTruthy classifies v as branch-taking under #if/#unless: false,
// null, 0, "", an empty array, and an empty object are falsy; every
// other value is truthy.
func IsTruthy(v Value) bool {
	switch t := v.(type) {
	case NullValue:
		return false
	case BoolValue:
		return bool(t)
	case IntegerValue:
		return t != 0
	case StringValue:
		return len(t) != 0
	case ArrayValue:
		return len(t) != 0
	case ObjectValue:
		return len(t) != 0
	default:
		return false
	}
}

// stringify renders v as raw (unescaped) text under the "no modifier"
// null/empty policy: null and non-string/non-integer values fail with
// TypeError; the empty string renders as itself.
func stringify(v Value, loc Location) (string, error) {
	switch t := v.(type) {
	case StringValue:
		return string(t), nil
	case IntegerValue:
		return fmt.Sprintf("%d", int64(t)), nil
	case NullValue:
		return "", newErr(KindTypeError, loc, "cannot render null value without '?' or with '!' modifier")
	default:
		return "", newErr(KindTypeError, loc, "cannot render %s as text", v.TypeName())
	}
}

// stringifyNullable implements the '?' modifier: null renders as the
// empty string, everything else follows the ordinary stringify rules.
func stringifyNullable(v Value, loc Location) (string, error) {
	if _, ok := v.(NullValue); ok {
		return "", nil
	}
	return stringify(v, loc)
}

// stringifyRequired implements the '!' modifier: null and the empty
// string both fail with TypeError; everything else follows the
// ordinary stringify rules.
func stringifyRequired(v Value, loc Location) (string, error) {
	if _, ok := v.(NullValue); ok {
		return "", newErr(KindTypeError, loc, "cannot render null value with '!' modifier")
	}
	if s, ok := v.(StringValue); ok && len(s) == 0 {
		return "", newErr(KindTypeError, loc, "cannot render empty string with '!' modifier")
	}
	return stringify(v, loc)
}
