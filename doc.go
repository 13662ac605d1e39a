// Package datamapper maps untyped data (decoded JSON or YAML, map[string]any)
// onto Go structs and flattens structs back into plain data.
//
// - Construction coerces each field to its declared type, runs hydration
//   functions, fills defaults, and reports every problem at once in a
//   *ValidationError.
// - Flattening walks the struct graph in declaration order and runs the
//   filter chain declared on each field.
// - Strict mode rejects input keys that no field accounts for, at every
//   nesting level.
//
// Field metadata is declared with struct tags and resolved once per type by
// package meta:
//
//	type Order struct {
//		ID    int      `map:"name=order_id"`
//		Price float64  `map:"price"`
//		Tags  []string `filter:"each(trim)|unique|sort"`
//		Lines []Line   `map:"lines"`
//		Total float64  `hydrate:"parent:expr:price * qty"`
//	}
//
// Typical usage:
//
//	m := datamapper.New(datamapper.WithStrictMode(true))
//	var o Order
//	err := m.FromJSON(ctx, data, &o)
//	out, err := m.ToJSON(ctx, &o)
//
// The JSON codec defaults to goccy/go-json; swap it process-wide with
// SetJSONDriver or per mapper with WithJSONCodec.
package datamapper
