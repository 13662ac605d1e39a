package coerce

import (
	"reflect"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{"int", 20, 20, true},
		{"numeric string", "20", 20, true},
		{"negative string", "-7", -7, true},
		{"whole float", 3.0, 3, true},
		{"json number", json.Number("42"), 42, true},
		{"whole json number", json.Number("42.0"), 42, true},
		{"fractional float", 3.5, 0, false},
		{"decimal string", "20.5", 0, false},
		{"word", "abc", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToInt(tc.in)
			if !tc.ok {
				var ce *Error
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, Int, ce.Scalar)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToFloat(t *testing.T) {
	f, err := ToFloat("29.99")
	require.NoError(t, err)
	assert.Equal(t, 29.99, f)

	f, err = ToFloat(10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, f)

	f, err = ToFloat("1e3")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, f)

	for _, bad := range []any{"not a number", "NaN", "Inf", "0x1p-2", "", true, []any{1}} {
		_, err := ToFloat(bad)
		assert.Error(t, err, "%#v", bad)
	}
}

func TestToBool_NoTruthyCoercion(t *testing.T) {
	b, err := ToBool(true)
	require.NoError(t, err)
	assert.True(t, b)

	for _, bad := range []any{1, 0, "true", "1", nil} {
		_, err := ToBool(bad)
		assert.Error(t, err, "%#v", bad)
	}
}

func TestToString(t *testing.T) {
	cases := map[any]string{
		"x":                "x",
		7:                  "7",
		int64(-3):          "-3",
		uint8(9):           "9",
		29.99:              "29.99",
		10.0:               "10",
		json.Number("1.5"): "1.5",
	}
	for in, want := range cases {
		got, err := ToString(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ToString(true)
	assert.Error(t, err)
	_, err = ToString(map[string]any{})
	assert.Error(t, err)
}

func TestInto_RangeChecks(t *testing.T) {
	var small struct {
		I8  int8
		U   uint
		F32 float32
		S   string
	}
	rv := reflect.ValueOf(&small).Elem()

	require.NoError(t, Into(rv.Field(0), "100"))
	assert.Equal(t, int8(100), small.I8)
	assert.Error(t, Into(rv.Field(0), 300))

	require.NoError(t, Into(rv.Field(1), 5))
	assert.Equal(t, uint(5), small.U)
	assert.Error(t, Into(rv.Field(1), -1))

	require.NoError(t, Into(rv.Field(2), "1.25"))
	assert.Equal(t, float32(1.25), small.F32)

	require.NoError(t, Into(rv.Field(3), 12))
	assert.Equal(t, "12", small.S)
}

func TestCast_BestEffort(t *testing.T) {
	assert.Equal(t, int64(1), Cast("1", Int))
	assert.Equal(t, int64(12), Cast("12abc", Int))
	assert.Equal(t, int64(0), Cast("abc", Int))
	assert.Equal(t, int64(3), Cast(3.9, Int))
	assert.Equal(t, int64(1), Cast(true, Int))
	assert.Equal(t, 3.5, Cast(" 3.5kg", Float))
	assert.Equal(t, "10", Cast(10, String))
	assert.Equal(t, "1", Cast(true, String))
	assert.Equal(t, false, Cast("0", Bool))
	assert.Equal(t, true, Cast("yes", Bool))
	assert.Equal(t, false, Cast([]any{}, Bool))

	nested := []any{"1"}
	assert.Equal(t, nested, Cast(nested, Int))
}

func TestParseScalar(t *testing.T) {
	s, ok := ParseScalar("Integer")
	require.True(t, ok)
	assert.Equal(t, Int, s)
	_, ok = ParseScalar("decimal")
	assert.False(t, ok)
	assert.Equal(t, "float", Float.String())
}

func TestToUint_FullRange(t *testing.T) {
	for _, in := range []any{uint64(18446744073709551615), "18446744073709551615", json.Number("18446744073709551615")} {
		got, err := ToUint(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, uint64(18446744073709551615), got)
	}
	got, err := ToUint(2.0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got)

	for _, in := range []any{-1, int64(-1), -1.0, 1.5, "-1", "1.5", json.Number("-2"), true} {
		_, err := ToUint(in)
		assert.Error(t, err, "%v", in)
	}

	var u struct{ U64 uint64 }
	rv := reflect.ValueOf(&u).Elem()
	require.NoError(t, Into(rv.Field(0), uint64(1<<63)))
	assert.Equal(t, uint64(1<<63), u.U64)
}
