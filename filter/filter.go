// Package filter implements the ordered array-transform chains applied to
// field values when an object is flattened back into plain data.
//
// Every filter is a pure transform over dynamic values: lists ([]any) and
// ordered keyed arrays (*Keyed). Values that are not collections pass
// through untouched unless the filter is documented to handle scalars
// (StringTrim, ArrayCast). Chains apply filters strictly left to right.
package filter

import (
	"strings"
)

// Kind identifies a filter.
type Kind int

const (
	KindEach Kind = iota + 1
	KindStringTrim
	KindUniqueArray
	KindSortArray
	KindSortArrayByKey
	KindReverseArray
	KindFilterKeys
	KindSliceArray
	KindLimitArray
	KindFlattenArray
	KindArrayCast
)

var kindNames = map[Kind]string{
	KindEach:           "Each",
	KindStringTrim:     "StringTrim",
	KindUniqueArray:    "UniqueArray",
	KindSortArray:      "SortArray",
	KindSortArrayByKey: "SortArrayByKey",
	KindReverseArray:   "ReverseArray",
	KindFilterKeys:     "FilterKeys",
	KindSliceArray:     "SliceArray",
	KindLimitArray:     "LimitArray",
	KindFlattenArray:   "FlattenArray",
	KindArrayCast:      "ArrayCast",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Filter is a single transform step. String renders the filter in the tag
// DSL accepted by Parse.
type Filter interface {
	Kind() Kind
	Apply(v any) any
	String() string
}

// Chain is an ordered sequence of filters.
type Chain []Filter

// Apply normalizes v and runs every filter in declaration order, each one
// receiving the previous output.
func (c Chain) Apply(v any) any {
	if len(c) == 0 {
		return v
	}
	out := Normalize(v)
	for _, f := range c {
		out = f.Apply(out)
	}
	return out
}

// Kinds lists the kinds of the chain in order.
func (c Chain) Kinds() []Kind {
	out := make([]Kind, len(c))
	for i, f := range c {
		out[i] = f.Kind()
	}
	return out
}

func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, f := range c {
		parts[i] = f.String()
	}
	return strings.Join(parts, "|")
}
