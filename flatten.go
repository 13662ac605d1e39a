package datamapper

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/igorpocta/data-mapper-sub001/filter"
	"github.com/igorpocta/data-mapper-sub001/meta"
)

func (m *Mapper) flatten(ctx context.Context, source any, ev *MappingEvent) (*filter.Keyed, error) {
	rv := reflect.ValueOf(source)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("datamapper: cannot flatten nil %T", source)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("datamapper: cannot flatten %T: not a struct", source)
	}
	ev.Type = rv.Type()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cm, err := m.resolver.Resolve(rv.Type())
	if err != nil {
		return nil, fmt.Errorf("datamapper: %w", err)
	}
	return m.record(cm, rv, 1)
}

// record flattens a struct into an ordered record: fields in declaration
// order, each passed through its filter chain.
func (m *Mapper) record(cm *meta.ClassMetadata, v reflect.Value, depth int) (*filter.Keyed, error) {
	if depth > m.maxDepth {
		return nil, fmt.Errorf("%w: %d levels at %s", ErrMaxDepth, m.maxDepth, cm.Type)
	}
	out := filter.NewKeyed()
	for i := range cm.Fields {
		f := &cm.Fields[i]
		val, err := m.flat(f.Type, v.FieldByIndex(f.Index), depth)
		if err != nil {
			return nil, err
		}
		if len(f.Filters) > 0 {
			val = f.Filters.Apply(val)
		}
		out.Set(f.Key, val)
	}
	return out, nil
}

func (m *Mapper) flat(d meta.Descriptor, v reflect.Value, depth int) (any, error) {
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		if d.Kind == meta.KindAny {
			return v.Interface(), nil
		}
		v = v.Elem()
	}
	switch d.Kind {
	case meta.KindScalar:
		return plainScalar(v), nil

	case meta.KindArray:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		out := make([]any, v.Len())
		for i := range out {
			item, err := m.flat(*d.Elem, v.Index(i), depth)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil

	case meta.KindMap:
		if v.IsNil() {
			return nil, nil
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		out := filter.NewKeyed()
		for _, k := range keys {
			item, err := m.flat(*d.Elem, v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())), depth)
			if err != nil {
				return nil, err
			}
			out.Set(k, item)
		}
		return out, nil

	case meta.KindObject:
		cm, err := m.resolver.Resolve(d.Object)
		if err != nil {
			return nil, err
		}
		return m.record(cm, v, depth+1)
	}
	return v.Interface(), nil
}

var builtinScalars = map[reflect.Kind]reflect.Type{
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.String:  reflect.TypeFor[string](),
}

// plainScalar strips named types (type Status string) down to the builtin
// type of the same kind.
func plainScalar(v reflect.Value) any {
	if t, ok := builtinScalars[v.Kind()]; ok && v.Type() != t {
		return v.Convert(t).Interface()
	}
	return v.Interface()
}
