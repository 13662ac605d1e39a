package filter

import (
	"reflect"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Keyed is an ordered, string-keyed array. Filters that care about key
// order (SortArrayByKey, ReverseArray, FilterKeys, SliceArray with
// preserved keys) produce and consume Keyed values.
type Keyed = orderedmap.OrderedMap[string, any]

// NewKeyed returns an empty Keyed.
func NewKeyed() *Keyed { return orderedmap.New[string, any]() }

// KeyedOf builds a Keyed from alternating key/value pairs. It panics on an
// odd argument count or a non-string key and is meant for literals.
func KeyedOf(kv ...any) *Keyed {
	if len(kv)%2 != 0 {
		panic("filter.KeyedOf: odd number of arguments")
	}
	k := NewKeyed()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("filter.KeyedOf: keys must be strings")
		}
		k.Set(key, kv[i+1])
	}
	return k
}

// Normalize converts Go collections into the dynamic forms the filters
// operate on: slices and arrays become []any, string-keyed maps become
// Keyed with keys in ascending order. Nested collections are converted
// too. Other values are returned unchanged.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case *Keyed:
		out := NewKeyed()
		for p := x.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, Normalize(p.Value))
		}
		return out
	case map[string]any:
		return keyedFromMap(reflect.ValueOf(x))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return []any{}
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return keyedFromMap(rv)
		}
	}
	return v
}

func keyedFromMap(rv reflect.Value) *Keyed {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	out := NewKeyed()
	for _, k := range keys {
		out.Set(k, Normalize(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
	}
	return out
}

// Plain converts Keyed values (recursively) into map[string]any. Key order
// is lost; use it only when the consumer expects Go maps.
func Plain(v any) any {
	switch x := v.(type) {
	case *Keyed:
		out := make(map[string]any, x.Len())
		for p := x.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = Plain(p.Value)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Plain(e)
		}
		return out
	}
	return v
}

type entry struct {
	key string
	val any
}

// entries flattens a list or Keyed into key/value pairs. List keys are the
// decimal indices.
func entries(v any) (es []entry, keyed bool, ok bool) {
	switch x := v.(type) {
	case []any:
		es = make([]entry, len(x))
		for i, e := range x {
			es[i] = entry{key: strconv.Itoa(i), val: e}
		}
		return es, false, true
	case *Keyed:
		es = make([]entry, 0, x.Len())
		for p := x.Oldest(); p != nil; p = p.Next() {
			es = append(es, entry{key: p.Key, val: p.Value})
		}
		return es, true, true
	}
	return nil, false, false
}

func build(es []entry, keyed bool) any {
	if keyed {
		out := NewKeyed()
		for _, e := range es {
			out.Set(e.key, e.val)
		}
		return out
	}
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = e.val
	}
	return out
}

func isCollection(v any) bool {
	switch v.(type) {
	case []any, *Keyed:
		return true
	}
	return false
}
