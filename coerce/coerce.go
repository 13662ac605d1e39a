// Package coerce converts dynamic values (decoded JSON/YAML, map payloads)
// into the scalar kinds a mapped field declares.
//
// Two flavours are provided:
//
//   - To / Into are strict and return *Error when a value cannot be
//     converted without losing meaning ("20" -> 20 is fine, "abc" -> int is not).
//   - Cast is best-effort and never fails; it backs the ArrayCast filter on
//     the output side where strict validation does not apply.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Scalar enumerates the scalar kinds a field can declare.
type Scalar int

const (
	Invalid Scalar = iota
	Int
	Float
	Bool
	String
)

func (s Scalar) String() string {
	switch s {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "invalid"
	}
}

// ParseScalar maps a scalar name (as written in tags and filter arguments)
// to a Scalar. Aliases such as "integer" and "boolean" are accepted.
func ParseScalar(name string) (Scalar, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer":
		return Int, true
	case "float", "double", "number":
		return Float, true
	case "bool", "boolean":
		return Bool, true
	case "string", "str":
		return String, true
	}
	return Invalid, false
}

// Error reports a value that cannot be converted to Scalar.
type Error struct {
	Scalar Scalar
	Value  any
	Reason string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Reason != "" {
		return fmt.Sprintf("coerce: cannot cast %T to %s: %s", e.Value, e.Scalar, e.Reason)
	}
	return fmt.Sprintf("coerce: cannot cast %T to %s", e.Value, e.Scalar)
}

func fail(s Scalar, v any, reason string) *Error { return &Error{Scalar: s, Value: v, Reason: reason} }

// To converts v to the Go representation of s: int64, float64, bool or string.
func To(v any, s Scalar) (any, error) {
	switch s {
	case Int:
		return ToInt(v)
	case Float:
		return ToFloat(v)
	case Bool:
		return ToBool(v)
	case String:
		return ToString(v)
	}
	return nil, fail(s, v, "unsupported scalar")
}

// ToInt accepts integers, floats without a fractional part, and strings
// that parse fully as base-10 integers.
func ToInt(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint, uint8, uint16, uint32, uint64, uintptr:
		u := toUint64(x)
		if u > math.MaxInt64 {
			return 0, fail(Int, v, "overflow")
		}
		return int64(u), nil
	case float32:
		return wholeFloat(float64(x), v)
	case float64:
		return wholeFloat(x, v)
	case json.Number:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return 0, fail(Int, v, "not a number")
		}
		return wholeFloat(f, v)
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, fail(Int, v, "not an integer string")
		}
		return n, nil
	}
	return 0, fail(Int, v, "")
}

// ToUint is ToInt for unsigned destinations: it covers the full uint64
// range and rejects negative values.
func ToUint(v any) (uint64, error) {
	switch x := v.(type) {
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return toUint64(x), nil
	case int, int8, int16, int32, int64:
		n, _ := ToInt(x)
		if n < 0 {
			return 0, fail(Int, v, "negative value")
		}
		return uint64(n), nil
	case float32:
		return wholeUnsigned(float64(x), v)
	case float64:
		return wholeUnsigned(x, v)
	case json.Number:
		if n, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return 0, fail(Int, v, "not a number")
		}
		return wholeUnsigned(f, v)
	case string:
		n, err := strconv.ParseUint(x, 10, 64)
		if err != nil {
			return 0, fail(Int, v, "not an unsigned integer string")
		}
		return n, nil
	}
	return 0, fail(Int, v, "")
}

func wholeUnsigned(f float64, orig any) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, fail(Int, orig, "fractional value")
	}
	if f < 0 {
		return 0, fail(Int, orig, "negative value")
	}
	if f >= math.MaxUint64 {
		return 0, fail(Int, orig, "overflow")
	}
	return uint64(f), nil
}

func wholeFloat(f float64, orig any) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, fail(Int, orig, "fractional value")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fail(Int, orig, "overflow")
	}
	return int64(f), nil
}

// ToFloat accepts floats, integers (widened) and decimal strings.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return float64(toUint64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fail(Float, v, "not a number")
		}
		return f, nil
	case string:
		if !isDecimal(x) {
			return 0, fail(Float, v, "not a decimal string")
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fail(Float, v, "not a decimal string")
		}
		return f, nil
	}
	return 0, fail(Float, v, "")
}

// ToBool only accepts booleans; truthy conversion is out of scope here.
func ToBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fail(Bool, v, "")
}

// ToString accepts strings and numbers with an unambiguous decimal form.
func ToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return string(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8, int16, int32, int64:
		n, _ := ToInt(x)
		return strconv.FormatInt(n, 10), nil
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return strconv.FormatUint(toUint64(x), 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", fail(String, v, "non-finite number")
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	}
	return "", fail(String, v, "")
}

func toUint64(v any) uint64 {
	switch x := v.(type) {
	case uint:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case uintptr:
		return uint64(x)
	}
	return 0
}

// isDecimal rejects forms strconv.ParseFloat accepts but JSON-ish input
// never means as a number: "Inf", "NaN", hex floats, underscores.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
		default:
			return false
		}
	}
	return digits > 0
}
