// Package gojson is the default JSON codec driver, backed by goccy/go-json.
package gojson

import (
	"bytes"
	"fmt"

	j "github.com/goccy/go-json"

	eng "github.com/igorpocta/data-mapper-sub001/internal/engine"
)

// Codec encodes and decodes JSON with goccy/go-json. Numbers decode to
// int64 when integral and float64 otherwise.
type Codec struct {
	// Indent, when non-empty, pretty-prints Marshal output.
	Indent string
}

// Driver returns the codec with compact output.
func Driver() Codec { return Codec{} }

func (c Codec) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return j.MarshalIndent(v, "", c.Indent)
	}
	return j.Marshal(v)
}

func (Codec) Unmarshal(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("gojson: unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return eng.NormalizeNumbers(out), nil
}

func (Codec) Name() string { return "go-json" }
