package hydrate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igorpocta/data-mapper-sub001/hydrate"
)

func fullName(payload any) (any, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected map, got %T", payload)
	}
	return fmt.Sprintf("%v %v", m["first"], m["last"]), nil
}

func TestParseModes(t *testing.T) {
	reg := hydrate.NewRegistry()
	reg.MustRegister("fullName", fullName)

	cases := []struct {
		decl string
		mode hydrate.Mode
		ref  string
	}{
		{"fullName", hydrate.ModeValue, "fullName"},
		{"value:fullName", hydrate.ModeValue, "fullName"},
		{"parent:fullName", hydrate.ModeParent, "fullName"},
		{"FULL: fullName", hydrate.ModeFull, "fullName"},
		{"full:expr:payload.meta", hydrate.ModeFull, "expr:payload.meta"},
	}
	for _, tc := range cases {
		t.Run(tc.decl, func(t *testing.T) {
			b, err := hydrate.Parse(tc.decl, reg)
			require.NoError(t, err)
			assert.Equal(t, tc.mode, b.Mode)
			assert.Equal(t, tc.ref, b.Ref)
		})
	}
}

func TestParseUnknownFunction(t *testing.T) {
	_, err := hydrate.Parse("parent:missing", hydrate.NewRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, hydrate.ErrNotCallable)

	var he *hydrate.Error
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "missing", he.Ref)
}

func TestCompileRejectsBadSources(t *testing.T) {
	for _, ref := range []string{"", "expr:", "expr:1 +", "cel:payload.", "path:$[", "lua:1"} {
		_, err := hydrate.Compile(ref, nil)
		assert.Error(t, err, ref)
	}
}

func TestBindingCallWrapsErrorsAndPanics(t *testing.T) {
	boom := errors.New("boom")
	b := &hydrate.Binding{Ref: "fails", Func: func(any) (any, error) { return nil, boom }}
	_, err := b.Call(nil)
	assert.ErrorIs(t, err, boom)

	b = &hydrate.Binding{Ref: "panics", Func: func(any) (any, error) { panic("bad payload") }}
	out, err := b.Call(nil)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad payload")

	var nilBinding *hydrate.Binding
	_, err = nilBinding.Call(nil)
	assert.ErrorIs(t, err, hydrate.ErrNotCallable)
}

func TestExprHydrator(t *testing.T) {
	reg := hydrate.NewRegistry()
	reg.MustRegister("fullName", fullName)

	fn, err := hydrate.Compile("expr:first + ' ' + last", reg)
	require.NoError(t, err)
	out, err := fn(map[string]any{"first": "Ada", "last": "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", out)

	fn, err = hydrate.Compile("expr:upper(fullName(payload))", reg)
	require.NoError(t, err)
	out, err = fn(map[string]any{"first": "a", "last": "b"})
	require.NoError(t, err)
	assert.Equal(t, "A B", out)
}

func TestCELHydrator(t *testing.T) {
	fn, err := hydrate.Compile("cel:payload.qty * 2", nil)
	require.NoError(t, err)
	out, err := fn(map[string]any{"qty": int64(21)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), out)
}

func TestPathHydrator(t *testing.T) {
	payload := map[string]any{
		"meta":  map[string]any{"version": "v2"},
		"items": []any{map[string]any{"sku": "a"}, map[string]any{"sku": "b"}},
	}

	fn, err := hydrate.Compile("path:$.meta.version", nil)
	require.NoError(t, err)
	out, err := fn(payload)
	require.NoError(t, err)
	assert.Equal(t, "v2", out)

	fn, err = hydrate.Compile("path:$.items[*].sku", nil)
	require.NoError(t, err)
	out, err = fn(payload)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out)

	fn, err = hydrate.Compile("path:$.absent", nil)
	require.NoError(t, err)
	out, err = fn(payload)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestJSHydratorAvailability(t *testing.T) {
	fn, err := hydrate.Compile("js:payload.a + payload.b", nil)
	if !hydrate.JSAvailable() {
		assert.ErrorIs(t, err, hydrate.ErrEngineUnavailable)
		return
	}
	require.NoError(t, err)
	out, err := fn(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, out)
}

func TestRegistry(t *testing.T) {
	reg := hydrate.NewRegistry()
	require.NoError(t, reg.Register("Trim", fullName))
	assert.Error(t, reg.Register("trim", fullName), "names are case-insensitive")
	assert.Error(t, reg.Register("a:b", fullName))
	assert.Error(t, reg.Register("nil", nil))

	_, ok := reg.Lookup("TRIM")
	assert.True(t, ok)

	clone := reg.Clone()
	clone.MustRegister("other", fullName)
	assert.Equal(t, []string{"Trim"}, reg.Names())
	assert.Equal(t, []string{"Trim", "other"}, clone.Names())
}
