package datamapper

import (
	"fmt"
	"reflect"

	"github.com/igorpocta/data-mapper-sub001/coerce"
	"github.com/igorpocta/data-mapper-sub001/filter"
)

// targetStruct returns the addressable struct behind target.
func targetStruct(target any) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}
	return rv.Elem(), nil
}

// assign stores a hydration result in dst without coercion. Numbers may
// change width or signedness when the value fits; anything else must be
// assignable to the field.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), v); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	if isNumeric(rv.Kind()) && isNumeric(dst.Kind()) {
		return coerce.Into(dst, v)
	}
	if rv.Kind() == dst.Kind() && (rv.Kind() == reflect.String || rv.Kind() == reflect.Bool) {
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("result of type %T is not assignable to %s", v, dst.Type())
}

func isNumeric(k reflect.Kind) bool {
	s := coerce.ScalarOf(k)
	return s == coerce.Int || s == coerce.Float
}

// listOf returns raw as a list when it is one.
func listOf(raw any) ([]any, bool) {
	if l, ok := raw.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// objectOf returns raw as a string-keyed mapping when it is one.
func objectOf(raw any) (map[string]any, bool) {
	switch x := raw.(type) {
	case map[string]any:
		return x, true
	case *filter.Keyed:
		if x == nil {
			return nil, false
		}
		out := make(map[string]any, x.Len())
		for p := x.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = p.Value
		}
		return out, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
