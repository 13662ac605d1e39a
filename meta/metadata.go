// Package meta resolves and caches the mapping metadata of struct types:
// which fields are mapped, under which source key, with which shape, and
// the filter chain and hydration binding attached to each.
//
// Metadata is declared with struct tags:
//
//	type Order struct {
//		ID     int      `map:"name=order_id"`
//		Status string   `map:"default=new,enum=new|paid|shipped"`
//		Tags   []string `filter:"each(trim)|unique|sort"`
//		Total  float64  `hydrate:"parent:expr:qty * price"`
//		Note   *string
//	}
package meta

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/igorpocta/data-mapper-sub001/filter"
	"github.com/igorpocta/data-mapper-sub001/hydrate"
)

// ErrNotStruct is returned when a type other than a struct (or pointer to
// one) is resolved.
var ErrNotStruct = errors.New("meta: not a struct type")

// FieldMetadata describes one mapped field.
type FieldMetadata struct {
	// Name is the Go field name.
	Name string
	// Index is the reflect index path, which is longer than one for fields
	// promoted from embedded structs.
	Index []int
	// Key is the key the field is read from and written to.
	Key     string
	Type    Descriptor
	Filters filter.Chain
	// Hydration, when set, computes the field during construction instead
	// of looking up Key.
	Hydration *hydrate.Binding
	Required  bool
	Optional  bool
	// Default is a value of Type.GoType used when Key is absent.
	Default    any
	HasDefault bool
	// Allow lists extra input keys this field accounts for in strict mode.
	Allow []string
}

// ClassMetadata is the resolved description of a struct type. It is
// immutable once returned by a Resolver.
type ClassMetadata struct {
	Type reflect.Type
	// Fields are in declaration order.
	Fields []FieldMetadata
	// Allowed holds every key accepted in strict mode.
	Allowed map[string]struct{}

	byKey map[string]int
}

// Name returns the struct type name.
func (c *ClassMetadata) Name() string { return c.Type.Name() }

// Field returns the field mapped to key.
func (c *ClassMetadata) Field(key string) (*FieldMetadata, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	return &c.Fields[i], true
}

// Allows reports whether key is accepted in strict mode.
func (c *ClassMetadata) Allows(key string) bool {
	_, ok := c.Allowed[key]
	return ok
}

// Keys returns the source keys in declaration order.
func (c *ClassMetadata) Keys() []string {
	keys := make([]string, len(c.Fields))
	for i := range c.Fields {
		keys[i] = c.Fields[i].Key
	}
	return keys
}

// ResolveError reports a type whose metadata cannot be built.
type ResolveError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *ResolveError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field == "" {
		return fmt.Sprintf("meta: resolve %v: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("meta: resolve %v.%s: %v", e.Type, e.Field, e.Err)
}

func (e *ResolveError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
