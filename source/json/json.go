// Package json is a JSON codec driver backed by encoding/json, for callers
// that need the standard library's exact error texts or behavior.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	eng "github.com/igorpocta/data-mapper-sub001/internal/engine"
)

// Codec encodes and decodes JSON with encoding/json.
type Codec struct {
	Indent string
}

// Driver returns the codec with compact output.
func Driver() Codec { return Codec{} }

func (c Codec) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return json.MarshalIndent(v, "", c.Indent)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("json: unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return eng.NormalizeNumbers(out), nil
}

func (Codec) Name() string { return "encoding/json" }
