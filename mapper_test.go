package datamapper_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	datamapper "github.com/igorpocta/data-mapper-sub001"
	"github.com/igorpocta/data-mapper-sub001/hydrate"
	"github.com/igorpocta/data-mapper-sub001/meta"
)

type Product struct {
	Name   string   `map:"name"`
	Price  float64  `map:"price"`
	Qty    int      `map:"qty,default=1"`
	Tags   []string `map:"tags,optional"`
	Active bool     `map:"active,optional"`
	Note   *string  `map:"note"`
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := datamapper.New()
	note := "fragile"
	in := Product{Name: "widget", Price: 9.5, Qty: 3, Tags: []string{"a", "b"}, Active: true, Note: &note}

	data, err := m.ToMap(ctx, &in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "widget", "price": 9.5, "qty": 3, "tags": []any{"a", "b"}, "active": true, "note": "fragile",
	}, data)

	var out Product
	require.NoError(t, m.FromMap(ctx, data, &out))
	assert.Equal(t, in, out)

	text, err := m.ToJSON(ctx, in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"widget","price":9.5,"qty":3,"tags":["a","b"],"active":true,"note":"fragile"}`, string(text))
	assert.True(t, strings.Index(string(text), `"name"`) < strings.Index(string(text), `"price"`))

	var fromJSON Product
	require.NoError(t, m.FromJSON(ctx, text, &fromJSON))
	assert.Equal(t, in, fromJSON)

	doc, err := m.ToYAML(ctx, &in)
	require.NoError(t, err)
	var fromYAML Product
	require.NoError(t, m.FromYAML(ctx, doc, &fromYAML))
	assert.Equal(t, in, fromYAML)
}

func TestStrictModeReportsEveryUnknownKey(t *testing.T) {
	ctx := context.Background()
	data := map[string]any{"name": "widget", "price": 1, "foo": 1, "bar": true}

	m := datamapper.New(datamapper.WithStrictMode(true))
	assert.True(t, m.IsStrictMode())

	var p Product
	err := m.FromMap(ctx, data, &p)
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{"bar", "foo"}, ve.Keys())
	assert.Equal(t, map[string]string{"bar": "Unknown key 'bar'", "foo": "Unknown key 'foo'"}, ve.Map())
	assert.Equal(t, Product{}, p, "target is untouched on failure")

	m.SetStrictMode(false)
	require.NoError(t, m.FromMap(ctx, data, &p))
	assert.Equal(t, "widget", p.Name)
	assert.Equal(t, 1, p.Qty)

	err = m.FromMap(datamapper.WithStrict(ctx, true), data, &p)
	assert.Error(t, err, "per-call override")
	assert.False(t, m.IsStrictMode())
}

type Line struct {
	SKU   string  `map:"sku"`
	Qty   int     `map:"qty"`
	Price float64 `map:"price,optional"`
}

type Order struct {
	ID     int               `map:"order_id"`
	Status string            `map:"status,default=new,enum=new|paid|shipped"`
	Lines  []Line            `map:"lines"`
	Attrs  map[string]string `map:"attrs,optional"`
}

func TestStrictModeAppliesToNestedObjects(t *testing.T) {
	m := datamapper.New(datamapper.WithStrictMode(true))
	data := map[string]any{
		"order_id": 1,
		"lines":    []any{map[string]any{"sku": "a", "qty": 1, "bogus": 1}},
	}
	var o Order
	err := m.FromMap(context.Background(), data, &o)
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"lines.0.bogus"}, ve.Keys())
}

func TestFloatCoercion(t *testing.T) {
	ctx := context.Background()
	m := datamapper.New()

	p, err := datamapper.Decode[Product](ctx, m, map[string]any{"name": "a", "price": "29.99"})
	require.NoError(t, err)
	assert.Equal(t, 29.99, p.Price)

	p, err = datamapper.Decode[Product](ctx, m, map[string]any{"name": "a", "price": 10})
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Price)

	_, err = datamapper.Decode[Product](ctx, m, map[string]any{"name": "a", "price": "not a number"})
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok)
	msg, ok := ve.Message("price")
	require.True(t, ok)
	assert.Equal(t, "Cannot cast value of field 'price' to float", msg)
	assert.Equal(t, datamapper.CodeInvalidType, ve.Issues[0].Code)
}

func TestNestedErrorsAreAggregatedWithDottedPaths(t *testing.T) {
	data := map[string]any{
		"order_id": "12",
		"status":   "lost",
		"lines": []any{
			map[string]any{"qty": 1},
			map[string]any{"sku": "b", "qty": "many"},
			"not an object",
		},
		"attrs": map[string]any{"color": "red", "size": []any{1}},
	}
	var o Order
	err := datamapper.New().FromMap(context.Background(), data, &o)
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok, "got %v", err)

	assert.Equal(t, []string{"status", "lines.0.sku", "lines.1.qty", "lines.2", "attrs.size"}, ve.Keys())
	assert.Equal(t, map[string]string{
		"status":      "Invalid value 'lost' for field 'status'",
		"lines.0.sku": "Missing required field 'sku'",
		"lines.1.qty": "Cannot cast value of field 'qty' to int",
		"lines.2":     "Cannot cast value of field 'lines' to object<Line>",
		"attrs.size":  "Cannot cast value of field 'attrs' to string",
	}, ve.Map())

	iss, ok := datamapper.AsIssues(err)
	require.True(t, ok)
	assert.Len(t, iss, 5)
}

func TestDefaultsAndRequired(t *testing.T) {
	ctx := context.Background()
	o, err := datamapper.Decode[Order](ctx, nil, map[string]any{"order_id": 7, "lines": []any{}})
	require.NoError(t, err)
	assert.Equal(t, "new", o.Status)
	assert.Equal(t, []Line{}, o.Lines)
	assert.Nil(t, o.Attrs)

	_, err = datamapper.Decode[Order](ctx, nil, map[string]any{})
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"order_id", "lines"}, ve.Keys())
	for _, it := range ve.Issues {
		assert.Equal(t, datamapper.CodeRequired, it.Code)
	}
}

func TestNullHandling(t *testing.T) {
	ctx := context.Background()
	p, err := datamapper.Decode[Product](ctx, nil, map[string]any{"name": "a", "price": 1, "note": nil, "tags": nil})
	require.NoError(t, err)
	assert.Nil(t, p.Note)
	assert.Nil(t, p.Tags)

	_, err = datamapper.Decode[Product](ctx, nil, map[string]any{"name": nil, "price": 1})
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot cast value of field 'name' to string", ve.Map()["name"])
}

type Person struct {
	First    string `map:"first"`
	Last     string `map:"last"`
	FullName string `map:"full_name" hydrate:"parent:fullName"`
	SortName string `map:"sort_name" hydrate:"parent:expr:last + ', ' + first"`
	Code     string `map:"code" hydrate:"expr:upper(payload)"`
}

func personMapper(t *testing.T) *datamapper.Mapper {
	t.Helper()
	reg := hydrate.NewRegistry()
	reg.MustRegister("fullName", func(payload any) (any, error) {
		m := payload.(map[string]any)
		return fmt.Sprintf("%s %s", m["first"], m["last"]), nil
	})
	return datamapper.New(datamapper.WithResolver(meta.NewResolver(meta.WithRegistry(reg))))
}

func TestHydrationParentAndValueModes(t *testing.T) {
	m := personMapper(t)
	var p Person
	err := m.FromMap(context.Background(), map[string]any{"first": "Ada", "last": "Lovelace", "code": "x1", "full_name": "ignored"}, &p)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.Equal(t, "Lovelace, Ada", p.SortName)
	assert.Equal(t, "X1", p.Code)
}

func TestHydrationFailuresAreIssues(t *testing.T) {
	m := personMapper(t)
	var p Person
	err := m.FromMap(context.Background(), map[string]any{"first": "Ada", "last": "Lovelace"}, &p)
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok, "upper(nil) must fail")
	assert.Equal(t, []string{"code"}, ve.Keys())
	assert.Equal(t, datamapper.CodeHydration, ve.Issues[0].Code)
	var he *hydrate.Error
	assert.ErrorAs(t, ve.Issues[0].Cause, &he)
}

type Leaf struct {
	Name     string `map:"name"`
	Currency string `map:"currency" hydrate:"full:path:$.settings.currency"`
	Depth    int64  `map:"depth" hydrate:"full:cel:size(payload.branch)"`
}

type Branch struct {
	Leaf Leaf `map:"leaf"`
}

type Tree struct {
	Branch   Branch            `map:"branch"`
	Settings map[string]string `map:"settings"`
}

func TestHydrationFullModeReachesOutermostInput(t *testing.T) {
	data := map[string]any{
		"branch":   map[string]any{"leaf": map[string]any{"name": "x"}},
		"settings": map[string]any{"currency": "EUR"},
	}
	var tree Tree
	require.NoError(t, datamapper.New(datamapper.WithStrictMode(true)).FromMap(context.Background(), data, &tree))
	assert.Equal(t, "EUR", tree.Branch.Leaf.Currency)
	assert.Equal(t, int64(1), tree.Branch.Leaf.Depth)
	assert.Equal(t, "x", tree.Branch.Leaf.Name)
}

type Assigned struct {
	Wrong []string `map:"wrong" hydrate:"parent:expr:[1, 2]"`
}

func TestHydrationResultMustBeAssignable(t *testing.T) {
	_, err := datamapper.Decode[Assigned](context.Background(), nil, map[string]any{})
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, datamapper.CodeHydration, ve.Issues[0].Code)
	assert.Contains(t, ve.Issues[0].Message, "Cannot hydrate field 'wrong'")
}

type Node struct {
	Name  string `map:"name"`
	Child *Node  `map:"child"`
}

func TestDepthGuard(t *testing.T) {
	ctx := context.Background()
	data := map[string]any{"name": "a", "child": map[string]any{"name": "b", "child": map[string]any{"name": "c"}}}

	var n Node
	err := datamapper.New(datamapper.WithMaxDepth(2)).FromMap(ctx, data, &n)
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"child.child"}, ve.Keys())
	assert.Equal(t, datamapper.CodeMaxDepth, ve.Issues[0].Code)

	require.NoError(t, datamapper.New().FromMap(ctx, data, &n))
	assert.Equal(t, "c", n.Child.Child.Name)

	loop := &Node{Name: "loop"}
	loop.Child = loop
	_, err = datamapper.New(datamapper.WithMaxDepth(4)).ToMap(ctx, loop)
	assert.ErrorIs(t, err, datamapper.ErrMaxDepth)
}

type Tagged struct {
	Tags   []string       `map:"tags" filter:"each(trim)|unique|sort"`
	Scores map[string]int `map:"scores" filter:"ksort|reverse"`
	Matrix []any          `map:"matrix" filter:"cast(int,recursive)"`
}

func TestFiltersRunOnFlatten(t *testing.T) {
	ctx := context.Background()
	in := Tagged{
		Tags:   []string{" b", "a ", "a", " c "},
		Scores: map[string]int{"b": 2, "a": 1, "c": 3},
		Matrix: []any{"1", []any{"2", []any{"3"}}},
	}
	out, err := datamapper.New().ToMap(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, out["tags"])
	assert.Equal(t, []any{int64(1), []any{int64(2), []any{int64(3)}}}, out["matrix"])

	text, err := datamapper.New().ToJSON(ctx, in)
	require.NoError(t, err)
	assert.Contains(t, string(text), `"scores":{"c":3,"b":2,"a":1}`)

	// filters never apply when constructing
	var back Tagged
	require.NoError(t, datamapper.New().FromMap(ctx, map[string]any{"tags": []any{" z"}, "scores": map[string]any{}, "matrix": []any{}}, &back))
	assert.Equal(t, []string{" z"}, back.Tags)
}

func TestMetadataIsResolvedOnce(t *testing.T) {
	m := datamapper.New()
	a, err := m.Metadata(Order{})
	require.NoError(t, err)
	b, err := m.Metadata(&Order{})
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, []string{"order_id", "status", "lines", "attrs"}, a.Keys())
}

func TestFromJSONErrors(t *testing.T) {
	ctx := context.Background()
	m := datamapper.New()
	var p Product

	err := m.FromJSON(ctx, []byte(`{"name":`), &p)
	var pe *datamapper.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "json", pe.Format)
	_, isValidation := datamapper.AsValidationError(err)
	assert.False(t, isValidation)

	err = m.FromJSON(ctx, []byte(`[1,2]`), &p)
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, datamapper.ErrNotObject)

	assert.ErrorIs(t, m.FromMap(ctx, nil, p), datamapper.ErrInvalidTarget)
	assert.ErrorIs(t, m.FromMap(ctx, nil, (*Product)(nil)), datamapper.ErrInvalidTarget)
}

func TestDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`{"name":"a","price":1,"name":"b"}`)

	var events []datamapper.MappingEvent
	logger := datamapper.LoggerFunc(func(ev datamapper.MappingEvent) { events = append(events, ev) })

	var p Product
	require.NoError(t, datamapper.New().FromJSON(ctx, doc, &p))

	require.NoError(t, datamapper.New(datamapper.WithDuplicateKeys(datamapper.Warn), datamapper.WithLogger(logger)).FromJSON(ctx, doc, &p))
	require.Len(t, events, 1)
	require.Len(t, events[0].Warnings, 1)
	assert.Equal(t, "name", events[0].Warnings[0].Path)

	err := datamapper.New(datamapper.WithDuplicateKeys(datamapper.Error)).FromJSON(ctx, doc, &p)
	ve, ok := datamapper.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, datamapper.CodeDuplicateKey, ve.Issues[0].Code)
}

func TestLoggerReceivesEvents(t *testing.T) {
	ctx := context.Background()
	var events []datamapper.MappingEvent
	m := datamapper.New(datamapper.WithLogger(datamapper.LoggerFunc(func(ev datamapper.MappingEvent) {
		events = append(events, ev)
	})))

	var p Product
	_ = m.FromMap(ctx, map[string]any{"price": "x"}, &p)
	_, _ = m.ToJSON(ctx, Product{Name: "a"})

	require.Len(t, events, 2)
	assert.Equal(t, datamapper.DirectionFrom, events[0].Direction)
	assert.Equal(t, 2, events[0].Issues)
	assert.Error(t, events[0].Err)
	assert.Equal(t, "Product", events[0].Type.Name())
	assert.Equal(t, datamapper.DirectionTo, events[1].Direction)
	assert.Equal(t, "json", events[1].Format)
	assert.NoError(t, events[1].Err)
}

func TestConcurrentUse(t *testing.T) {
	ctx := context.Background()
	m := datamapper.New()
	var wg sync.WaitGroup
	errs := make([]error, 32)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.SetStrictMode(i%2 == 0)
			_, errs[i] = datamapper.Decode[Order](ctx, m, map[string]any{"order_id": i, "lines": []any{map[string]any{"sku": "a", "qty": i}}})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestResolveErrorsSurface(t *testing.T) {
	type bad struct {
		C chan int
	}
	var b bad
	err := datamapper.New().FromMap(context.Background(), map[string]any{}, &b)
	var re *meta.ResolveError
	assert.True(t, errors.As(err, &re))
}
