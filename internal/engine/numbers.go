// Package engine holds the decoding helpers shared by the codec drivers and
// the mapper: duplicate key detection and number normalization.
package engine

import (
	"encoding/json"
	"strconv"
)

// NormalizeNumbers replaces json.Number values in a decoded document with
// int64 when the literal is integral, uint64 for integers above
// math.MaxInt64, and float64 otherwise. Literals that fit
// neither (huge integers with exponents overflowing float64) stay json.Number.
// Maps and slices are rewritten in place.
func NormalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return n
		}
		if u, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return u
		}
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return f
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = NormalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = NormalizeNumbers(e)
		}
		return x
	}
	return v
}
