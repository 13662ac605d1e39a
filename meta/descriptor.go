package meta

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/igorpocta/data-mapper-sub001/coerce"
)

// Kind classifies the shape of a mapped value.
type Kind int

const (
	// KindAny is an empty interface; values pass through unchanged.
	KindAny Kind = iota
	// KindScalar is an int, float, bool or string of any Go width.
	KindScalar
	// KindArray is a slice of Elem.
	KindArray
	// KindMap is a string-keyed map of Elem.
	KindMap
	// KindObject is a nested struct described by its own ClassMetadata.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	default:
		return "any"
	}
}

// Descriptor is the immutable shape of a field or element.
type Descriptor struct {
	Kind   Kind
	Scalar coerce.Scalar
	// GoType is the declared Go type, pointer included.
	GoType reflect.Type
	// Object is the struct type of a KindObject descriptor.
	Object   reflect.Type
	Elem     *Descriptor
	Nullable bool
	// Enum restricts a scalar to the listed textual values.
	Enum []string
}

// String renders the descriptor the way it appears in messages: "int",
// "float", "array<string>", "map<int>", "object<Order>", "any".
func (d Descriptor) String() string {
	switch d.Kind {
	case KindScalar:
		return d.Scalar.String()
	case KindArray:
		return "array<" + d.Elem.String() + ">"
	case KindMap:
		return "map<" + d.Elem.String() + ">"
	case KindObject:
		return "object<" + d.Object.Name() + ">"
	}
	return "any"
}

// Allows reports whether the textual form of v is in Enum. Descriptors
// without an enum allow everything.
func (d Descriptor) Allows(v any) bool {
	if len(d.Enum) == 0 {
		return true
	}
	s := fmt.Sprint(v)
	for _, e := range d.Enum {
		if e == s {
			return true
		}
	}
	return false
}

// describe builds the descriptor of t. Nested struct types are recorded,
// not resolved, so self-referential types are fine here.
func describe(t reflect.Type) (Descriptor, error) {
	d := Descriptor{GoType: t}
	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return d, fmt.Errorf("unsupported pointer to pointer %s", t)
		}
		inner, err := describe(t.Elem())
		if err != nil {
			return d, err
		}
		inner.GoType = t
		inner.Nullable = true
		return inner, nil
	}
	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return d, fmt.Errorf("unsupported interface type %s", t)
		}
		d.Kind = KindAny
		d.Nullable = true
	case reflect.Slice:
		elem, err := describe(t.Elem())
		if err != nil {
			return d, err
		}
		d.Kind = KindArray
		d.Elem = &elem
		d.Nullable = true
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return d, fmt.Errorf("unsupported map key type %s", t.Key())
		}
		elem, err := describe(t.Elem())
		if err != nil {
			return d, err
		}
		d.Kind = KindMap
		d.Elem = &elem
		d.Nullable = true
	case reflect.Struct:
		d.Kind = KindObject
		d.Object = t
	default:
		s := coerce.ScalarOf(t.Kind())
		if s == coerce.Invalid {
			return d, fmt.Errorf("unsupported kind %s", t.Kind())
		}
		d.Kind = KindScalar
		d.Scalar = s
	}
	return d, nil
}

// withEnum attaches values to the innermost scalar of d.
func withEnum(d Descriptor, values []string) (Descriptor, error) {
	switch d.Kind {
	case KindScalar:
		d.Enum = values
		return d, nil
	case KindArray, KindMap:
		elem, err := withEnum(*d.Elem, values)
		if err != nil {
			return d, err
		}
		d.Elem = &elem
		return d, nil
	}
	return d, fmt.Errorf("enum requires a scalar, got %s", d)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
