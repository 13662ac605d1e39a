package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	c := Driver()
	v, err := c.Unmarshal([]byte("name: widget\nqty: 3\nprice: 9.5\ntags: [a, b]\nattrs:\n  1: one\n"))
	require.NoError(t, err)
	m := v.(map[string]any)
	assert.Equal(t, "widget", m["name"])
	assert.Equal(t, int64(3), m["qty"])
	assert.Equal(t, 9.5, m["price"])
	assert.Equal(t, []any{"a", "b"}, m["tags"])
	assert.Equal(t, map[string]any{"1": "one"}, m["attrs"])

	out, err := c.Marshal(map[string]any{"name": "widget"})
	require.NoError(t, err)
	assert.Equal(t, "name: widget\n", string(out))

	_, err = c.Unmarshal([]byte("a: [1, 2"))
	assert.Error(t, err)
}
