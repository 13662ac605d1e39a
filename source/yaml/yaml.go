// Package yaml is the YAML codec driver, backed by gopkg.in/yaml.v3.
package yaml

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes YAML documents. Mappings decode to
// map[string]any; non-string keys are rendered with fmt.
type Codec struct {
	// Indent is the number of spaces per level; zero means yaml.v3's default.
	Indent int
}

// Driver returns the codec with default indentation.
func Driver() Codec { return Codec{} }

func (c Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if c.Indent > 0 {
		enc.SetIndent(c.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Codec) Unmarshal(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return stringKeys(out), nil
}

func (Codec) Name() string { return "yaml.v3" }

func stringKeys(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = stringKeys(e)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = stringKeys(e)
		}
		return x
	case int:
		return int64(x)
	}
	return v
}
