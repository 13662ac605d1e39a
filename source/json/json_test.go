package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	v, err := Driver().Unmarshal([]byte(`{"n":1,"f":1.5,"s":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": int64(1), "f": 1.5, "s": "x"}, v)

	out, err := Driver().Marshal([]any{1, "a"})
	require.NoError(t, err)
	assert.Equal(t, `[1,"a"]`, string(out))
	assert.Equal(t, "encoding/json", Driver().Name())
}
