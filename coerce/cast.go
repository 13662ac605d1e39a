package coerce

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Cast converts v to s without failing. Values the strict rules accept are
// converted identically; anything else falls back to a loose conversion:
//
//   - int/float: booleans become 1/0, strings use their leading numeric
//     prefix (or 0), nil becomes 0, floats are truncated toward zero.
//   - bool: usual truthiness (nil, false, 0, "", "0" and empty collections
//     are false).
//   - string: booleans become "1"/"", nil becomes "".
//
// Collections ([]any, maps) are returned unchanged for every scalar except
// Bool; recursion into them is the caller's business.
func Cast(v any, s Scalar) any {
	if out, err := To(v, s); err == nil {
		return out
	}
	switch s {
	case Int:
		return castInt(v)
	case Float:
		return castFloat(v)
	case Bool:
		return truthy(v)
	case String:
		return castString(v)
	}
	return v
}

func castInt(v any) any {
	switch x := v.(type) {
	case nil:
		return int64(0)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case float32:
		return truncate(float64(x))
	case float64:
		return truncate(x)
	case json.Number:
		f, _ := strconv.ParseFloat(string(x), 64)
		return truncate(f)
	case string:
		return truncate(leadingNumber(x))
	}
	return v
}

func castFloat(v any) any {
	switch x := v.(type) {
	case nil:
		return float64(0)
	case bool:
		if x {
			return float64(1)
		}
		return float64(0)
	case string:
		return leadingNumber(x)
	}
	return v
}

func castString(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return v
}

func truncate(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

// leadingNumber parses the longest numeric prefix of s after leading
// whitespace: "12abc" -> 12, " 3.5kg" -> 3.5, "abc" -> 0.
func leadingNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
scan:
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			break scan
		}
	}
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	if f, err := ToFloat(v); err == nil {
		return f != 0
	}
	return true
}
