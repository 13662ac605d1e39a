package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/igorpocta/data-mapper-sub001/coerce"
)

// DefaultTrimChars is the set StringTrim strips when no set is given.
const DefaultTrimChars = " \t\n\r\x00\x0B"

// ---- Each ----

// EachFilter applies Sub to every element of a collection, keeping keys.
type EachFilter struct{ Sub Chain }

// Each returns a filter applying sub (in order) to each element.
func Each(sub ...Filter) EachFilter { return EachFilter{Sub: Chain(sub)} }

func (EachFilter) Kind() Kind { return KindEach }

func (f EachFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	for i := range es {
		val := es[i].val
		for _, sub := range f.Sub {
			val = sub.Apply(val)
		}
		es[i].val = val
	}
	return build(es, keyed)
}

func (f EachFilter) String() string { return "each(" + f.Sub.String() + ")" }

// ---- StringTrim ----

// TrimFilter trims Chars from both ends of strings. Applied to a collection
// it trims the string elements one level deep.
type TrimFilter struct{ Chars string }

// Trim returns a StringTrim filter. An empty chars argument means
// DefaultTrimChars.
func Trim(chars ...string) TrimFilter { return TrimFilter{Chars: strings.Join(chars, "")} }

func (TrimFilter) Kind() Kind { return KindStringTrim }

func (f TrimFilter) Apply(v any) any {
	if s, ok := v.(string); ok {
		return strings.Trim(s, f.cutset())
	}
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	for i := range es {
		if s, ok := es[i].val.(string); ok {
			es[i].val = strings.Trim(s, f.cutset())
		}
	}
	return build(es, keyed)
}

func (f TrimFilter) cutset() string {
	if f.Chars == "" {
		return DefaultTrimChars
	}
	return f.Chars
}

func (f TrimFilter) String() string {
	if f.Chars == "" {
		return "trim"
	}
	return "trim(chars=" + strconv.Quote(f.Chars) + ")"
}

// ---- UniqueArray ----

// UniqueFilter drops repeated values, keeping the first occurrence and its
// key. Scalars are compared by their string form: 1, "1" and true are one
// value, as are nil, false and "". Collections compare by their JSON form.
type UniqueFilter struct{}

// Unique returns a UniqueArray filter.
func Unique() UniqueFilter { return UniqueFilter{} }

func (UniqueFilter) Kind() Kind { return KindUniqueArray }

func (UniqueFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	seen := make(map[string]struct{}, len(es))
	out := es[:0:0]
	for _, e := range es {
		k := identity(e.val)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return build(out, keyed)
}

func (UniqueFilter) String() string { return "unique" }

func identity(v any) string {
	if isCollection(v) {
		b, err := json.Marshal(v)
		if err == nil {
			return "\x00" + string(b)
		}
		return fmt.Sprintf("\x00%v", v)
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "1"
		}
		return ""
	}
	if s, err := coerce.ToString(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// ---- SortArray / SortArrayByKey ----

// SortFilter sorts by value. Lists are renumbered; keyed arrays keep each
// value's key. The sort is stable.
type SortFilter struct{ Desc bool }

// Sort returns a SortArray filter.
func Sort(desc bool) SortFilter { return SortFilter{Desc: desc} }

func (SortFilter) Kind() Kind { return KindSortArray }

func (f SortFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	sort.SliceStable(es, func(i, j int) bool {
		if f.Desc {
			return Compare(es[j].val, es[i].val) < 0
		}
		return Compare(es[i].val, es[j].val) < 0
	})
	return build(es, keyed)
}

func (f SortFilter) String() string {
	if f.Desc {
		return "sort(desc)"
	}
	return "sort"
}

// SortByKeyFilter sorts entries by key. Numeric keys compare numerically.
type SortByKeyFilter struct{ Desc bool }

// SortByKey returns a SortArrayByKey filter.
func SortByKey(desc bool) SortByKeyFilter { return SortByKeyFilter{Desc: desc} }

func (SortByKeyFilter) Kind() Kind { return KindSortArrayByKey }

func (f SortByKeyFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	sort.SliceStable(es, func(i, j int) bool {
		if f.Desc {
			return Compare(es[j].key, es[i].key) < 0
		}
		return Compare(es[i].key, es[j].key) < 0
	})
	return build(es, keyed)
}

func (f SortByKeyFilter) String() string {
	if f.Desc {
		return "ksort(desc)"
	}
	return "ksort"
}

// Compare orders two dynamic values by rank (nil < bool < number <
// string < collection), then within the rank. Numeric strings rank as
// numbers, so "9" < "10" < "1a" whatever the input order.
func Compare(a, b any) int {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	if isCollection(a) {
		return strings.Compare(identity(a), identity(b))
	}
	return 0
}

func number(v any) (float64, bool) {
	switch v.(type) {
	case nil, bool, []any, *Keyed:
		return 0, false
	}
	f, err := coerce.ToFloat(v)
	return f, err == nil
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case string:
		if _, ok := number(v); ok {
			return 2
		}
		return 3
	case []any, *Keyed:
		return 4
	}
	return 2
}

// ---- ReverseArray ----

// ReverseFilter reverses element order; keyed arrays keep their keys.
type ReverseFilter struct{}

// Reverse returns a ReverseArray filter.
func Reverse() ReverseFilter { return ReverseFilter{} }

func (ReverseFilter) Kind() Kind { return KindReverseArray }

func (ReverseFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	for i, j := 0, len(es)-1; i < j; i, j = i+1, j-1 {
		es[i], es[j] = es[j], es[i]
	}
	return build(es, keyed)
}

func (ReverseFilter) String() string { return "reverse" }

// ---- FilterKeys ----

// KeysFilter keeps only Allow keys (when set) and then drops Deny keys.
// Lists are matched by index and renumbered.
type KeysFilter struct {
	Allow []string
	Deny  []string
}

// Keys returns a FilterKeys filter.
func Keys(allow, deny []string) KeysFilter { return KeysFilter{Allow: allow, Deny: deny} }

func (KeysFilter) Kind() Kind { return KindFilterKeys }

func (f KeysFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	allow := setOf(f.Allow)
	deny := setOf(f.Deny)
	out := es[:0:0]
	for _, e := range es {
		if len(allow) > 0 {
			if _, ok := allow[e.key]; !ok {
				continue
			}
		}
		if _, ok := deny[e.key]; ok {
			continue
		}
		out = append(out, e)
	}
	return build(out, keyed)
}

func (f KeysFilter) String() string {
	var args []string
	if len(f.Allow) > 0 {
		args = append(args, "allow="+strings.Join(f.Allow, " "))
	}
	if len(f.Deny) > 0 {
		args = append(args, "deny="+strings.Join(f.Deny, " "))
	}
	return "keys(" + strings.Join(args, ",") + ")"
}

func setOf(keys []string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

// ---- SliceArray / LimitArray ----

// SliceFilter follows array_slice semantics. A negative Offset counts from
// the end; a nil Length runs to the end and a negative one stops that many
// elements before the end. Lists are renumbered unless PreserveKeys is set,
// in which case the result is keyed by the original indices. Keyed arrays
// always keep their keys.
type SliceFilter struct {
	Offset       int
	Length       *int
	PreserveKeys bool
}

// Slice returns a SliceArray filter with an explicit length.
func Slice(offset, length int, preserveKeys bool) SliceFilter {
	return SliceFilter{Offset: offset, Length: &length, PreserveKeys: preserveKeys}
}

// SliceFrom returns a SliceArray filter running to the end.
func SliceFrom(offset int, preserveKeys bool) SliceFilter {
	return SliceFilter{Offset: offset, PreserveKeys: preserveKeys}
}

func (SliceFilter) Kind() Kind { return KindSliceArray }

func (f SliceFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		return v
	}
	lo, hi := bounds(len(es), f.Offset, f.Length)
	return build(es[lo:hi], keyed || f.PreserveKeys)
}

func (f SliceFilter) String() string {
	args := []string{strconv.Itoa(f.Offset)}
	if f.Length != nil {
		args = append(args, strconv.Itoa(*f.Length))
	}
	if f.PreserveKeys {
		args = append(args, "preserve")
	}
	return "slice(" + strings.Join(args, ",") + ")"
}

func bounds(n, offset int, length *int) (int, int) {
	lo := offset
	if lo < 0 {
		lo += n
		if lo < 0 {
			lo = 0
		}
	}
	if lo > n {
		return n, n
	}
	hi := n
	if length != nil {
		l := *length
		if l < 0 {
			hi = n + l
		} else {
			hi = lo + l
		}
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// LimitFilter keeps the first Count elements.
type LimitFilter struct {
	Count        int
	PreserveKeys bool
}

// Limit returns a LimitArray filter.
func Limit(count int, preserveKeys bool) LimitFilter {
	return LimitFilter{Count: count, PreserveKeys: preserveKeys}
}

func (LimitFilter) Kind() Kind { return KindLimitArray }

func (f LimitFilter) Apply(v any) any {
	return Slice(0, f.Count, f.PreserveKeys).Apply(v)
}

func (f LimitFilter) String() string {
	if f.PreserveKeys {
		return "limit(" + strconv.Itoa(f.Count) + ",preserve)"
	}
	return "limit(" + strconv.Itoa(f.Count) + ")"
}

// ---- FlattenArray ----

// FlattenFilter concatenates nested collections into one list, at any depth.
type FlattenFilter struct{}

// Flatten returns a FlattenArray filter.
func Flatten() FlattenFilter { return FlattenFilter{} }

func (FlattenFilter) Kind() Kind { return KindFlattenArray }

func (FlattenFilter) Apply(v any) any {
	if !isCollection(v) {
		return v
	}
	return flattenInto(make([]any, 0), v)
}

func flattenInto(dst []any, v any) []any {
	es, _, ok := entries(v)
	if !ok {
		return append(dst, v)
	}
	for _, e := range es {
		dst = flattenInto(dst, e.val)
	}
	return dst
}

func (FlattenFilter) String() string { return "flatten" }

// ---- ArrayCast ----

// CastFilter casts every element to Scalar with coerce.Cast. Nested
// collections are cast only when Recursive is set and otherwise kept as-is.
// A scalar input is cast directly.
type CastFilter struct {
	Scalar    coerce.Scalar
	Recursive bool
}

// Cast returns an ArrayCast filter.
func Cast(s coerce.Scalar, recursive bool) CastFilter {
	return CastFilter{Scalar: s, Recursive: recursive}
}

func (CastFilter) Kind() Kind { return KindArrayCast }

func (f CastFilter) Apply(v any) any {
	es, keyed, ok := entries(v)
	if !ok {
		if v == nil {
			return v
		}
		return coerce.Cast(v, f.Scalar)
	}
	for i := range es {
		if isCollection(es[i].val) {
			if f.Recursive {
				es[i].val = f.Apply(es[i].val)
			}
			continue
		}
		es[i].val = coerce.Cast(es[i].val, f.Scalar)
	}
	return build(es, keyed)
}

func (f CastFilter) String() string {
	if f.Recursive {
		return "cast(" + f.Scalar.String() + ",recursive)"
	}
	return "cast(" + f.Scalar.String() + ")"
}
