package datamapper

import (
	"sync"

	"github.com/igorpocta/data-mapper-sub001/source/gojson"
	"github.com/igorpocta/data-mapper-sub001/source/yaml"
)

// Codec converts between encoded documents and dynamic values. Decoded
// objects are map[string]any and arrays []any; Marshal must honor
// json.Marshaler so ordered records keep their key order.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver Codec = gojson.Driver()
	yamlCodec         Codec = yaml.Driver()
)

// SetJSONDriver replaces the global JSON codec used by mappers without
// their own; nil values are ignored.
func SetJSONDriver(c Codec) {
	if c == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = c
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the goccy/go-json codec.
func UseDefaultJSONDriver() { SetJSONDriver(gojson.Driver()) }

// JSONDriver returns the global JSON codec.
func JSONDriver() Codec {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}
