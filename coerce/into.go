package coerce

import (
	"reflect"
)

// ScalarOf reports the Scalar a Go kind maps onto, or Invalid.
func ScalarOf(k reflect.Kind) Scalar {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.Bool:
		return Bool
	case reflect.String:
		return String
	}
	return Invalid
}

// Into coerces raw according to the scalar kind of dst and stores the
// result. dst must be settable. Range checks follow dst's concrete size, so
// 300 into an int8 field fails instead of wrapping.
func Into(dst reflect.Value, raw any) error {
	s := ScalarOf(dst.Kind())
	switch s {
	case Int:
		switch dst.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u, err := ToUint(raw)
			if err != nil {
				return err
			}
			if dst.OverflowUint(u) {
				return fail(Int, raw, "out of range")
			}
			dst.SetUint(u)
		default:
			n, err := ToInt(raw)
			if err != nil {
				return err
			}
			if dst.OverflowInt(n) {
				return fail(Int, raw, "out of range")
			}
			dst.SetInt(n)
		}
	case Float:
		f, err := ToFloat(raw)
		if err != nil {
			return err
		}
		if dst.OverflowFloat(f) {
			return fail(Float, raw, "out of range")
		}
		dst.SetFloat(f)
	case Bool:
		b, err := ToBool(raw)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case String:
		str, err := ToString(raw)
		if err != nil {
			return err
		}
		dst.SetString(str)
	default:
		return fail(s, raw, "unsupported destination kind "+dst.Kind().String())
	}
	return nil
}
