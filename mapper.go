package datamapper

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/igorpocta/data-mapper-sub001/filter"
	"github.com/igorpocta/data-mapper-sub001/meta"
)

// Mapper converts between dynamic data and structs. A Mapper is safe for
// concurrent use; strict mode may be toggled while calls are in flight and
// each call observes the value current when it started.
type Mapper struct {
	strict   atomic.Bool
	maxDepth int
	dupKeys  Severity
	codec    Codec
	resolver *meta.Resolver
	logger   Logger
}

// New constructs a Mapper with DefaultOptions adjusted by opts.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		maxDepth: DefaultMaxDepth,
		resolver: meta.Default,
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.maxDepth <= 0 {
		m.maxDepth = DefaultMaxDepth
	}
	return m
}

// IsStrictMode reports whether unknown keys are rejected.
func (m *Mapper) IsStrictMode() bool { return m.strict.Load() }

// SetStrictMode switches strict mode for subsequent calls.
func (m *Mapper) SetStrictMode(strict bool) { m.strict.Store(strict) }

// Options returns the current configuration.
func (m *Mapper) Options() Options {
	return Options{StrictMode: m.IsStrictMode(), MaxDepth: m.maxDepth, DuplicateKeys: m.dupKeys}
}

func (m *Mapper) isStrict(ctx context.Context) bool {
	if v, ok := strictFrom(ctx); ok {
		return v
	}
	return m.strict.Load()
}

func (m *Mapper) jsonCodec() Codec {
	if m.codec != nil {
		return m.codec
	}
	return JSONDriver()
}

func (m *Mapper) log(ev MappingEvent, start time.Time, err error) {
	ev.Duration = time.Since(start)
	ev.Err = err
	m.logger.LogMapping(ev)
}

// FromMap builds target, a non-nil pointer to a struct, from data. Every
// problem found is reported in a single *ValidationError, in which case
// target is left untouched.
func (m *Mapper) FromMap(ctx context.Context, data map[string]any, target any) error {
	start := time.Now()
	ev := MappingEvent{Direction: DirectionFrom, Format: "map"}
	err := m.construct(ctx, data, target, &ev, nil)
	m.log(ev, start, err)
	return err
}

// FromJSON decodes data with the JSON codec and builds target from it.
// Undecodable input yields a *ParseError.
func (m *Mapper) FromJSON(ctx context.Context, data []byte, target any) error {
	return m.fromDocument(ctx, "json", m.jsonCodec(), data, target)
}

// FromYAML decodes a YAML document and builds target from it.
func (m *Mapper) FromYAML(ctx context.Context, data []byte, target any) error {
	return m.fromDocument(ctx, "yaml", yamlCodec, data, target)
}

func (m *Mapper) fromDocument(ctx context.Context, format string, codec Codec, data []byte, target any) (err error) {
	start := time.Now()
	ev := MappingEvent{Direction: DirectionFrom, Format: format}
	defer func() { m.log(ev, start, err) }()

	var pre Issues
	if format == "json" && m.dupKeys != Ignore {
		dups, derr := DetectJSONDuplicateKeysBytes(data, m.dupKeys, -1)
		if derr != nil {
			return &ParseError{Format: format, Codec: codec.Name(), Err: derr}
		}
		if m.dupKeys == Warn {
			ev.Warnings = dups
		} else {
			pre = dups
		}
	}
	v, err := codec.Unmarshal(data)
	if err != nil {
		return &ParseError{Format: format, Codec: codec.Name(), Err: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return &ParseError{Format: format, Codec: codec.Name(), Err: fmt.Errorf("%w (got %T)", ErrNotObject, v)}
	}
	return m.construct(ctx, obj, target, &ev, pre)
}

// ToMap flattens source, a struct or pointer to one, into plain data.
func (m *Mapper) ToMap(ctx context.Context, source any) (map[string]any, error) {
	start := time.Now()
	ev := MappingEvent{Direction: DirectionTo, Format: "map"}
	rec, err := m.flatten(ctx, source, &ev)
	var out map[string]any
	if err == nil {
		out = filter.Plain(rec).(map[string]any)
	}
	m.log(ev, start, err)
	return out, err
}

// ToJSON flattens source and encodes it with the JSON codec. Keys appear
// in field declaration order.
func (m *Mapper) ToJSON(ctx context.Context, source any) ([]byte, error) {
	return m.toDocument(ctx, "json", m.jsonCodec(), source)
}

// ToYAML flattens source and encodes it as YAML in declaration order.
func (m *Mapper) ToYAML(ctx context.Context, source any) ([]byte, error) {
	return m.toDocument(ctx, "yaml", yamlCodec, source)
}

func (m *Mapper) toDocument(ctx context.Context, format string, codec Codec, source any) (out []byte, err error) {
	start := time.Now()
	ev := MappingEvent{Direction: DirectionTo, Format: format}
	defer func() { m.log(ev, start, err) }()

	rec, err := m.flatten(ctx, source, &ev)
	if err != nil {
		return nil, err
	}
	out, err = codec.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("datamapper: encode %s (%s): %w", format, codec.Name(), err)
	}
	return out, nil
}

// Decode builds a T from data. A nil m uses a fresh lenient Mapper.
func Decode[T any](ctx context.Context, m *Mapper, data map[string]any) (T, error) {
	if m == nil {
		m = New()
	}
	var out T
	err := m.FromMap(ctx, data, &out)
	return out, err
}

// DecodeJSON builds a T from a JSON document.
func DecodeJSON[T any](ctx context.Context, m *Mapper, data []byte) (T, error) {
	if m == nil {
		m = New()
	}
	var out T
	err := m.FromJSON(ctx, data, &out)
	return out, err
}

// Metadata resolves the metadata of v's type with the mapper's resolver.
func (m *Mapper) Metadata(v any) (*meta.ClassMetadata, error) {
	return m.resolver.Resolve(reflect.TypeOf(v))
}
