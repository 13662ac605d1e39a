package datamapper

import (
	"github.com/igorpocta/data-mapper-sub001/meta"
)

// Option configures a Mapper.
type Option func(*Mapper)

// WithOptions applies a whole Options value.
func WithOptions(o Options) Option {
	return func(m *Mapper) {
		m.strict.Store(o.StrictMode)
		m.maxDepth = o.MaxDepth
		m.dupKeys = o.DuplicateKeys
	}
}

// WithStrictMode sets the initial strict mode.
func WithStrictMode(strict bool) Option {
	return func(m *Mapper) { m.strict.Store(strict) }
}

// WithMaxDepth bounds object nesting; n <= 0 restores DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(m *Mapper) { m.maxDepth = n }
}

// WithDuplicateKeys sets how duplicate keys in JSON input are handled.
func WithDuplicateKeys(s Severity) Option {
	return func(m *Mapper) { m.dupKeys = s }
}

// WithJSONCodec pins the JSON codec of the mapper instead of following
// SetJSONDriver.
func WithJSONCodec(c Codec) Option {
	return func(m *Mapper) { m.codec = c }
}

// WithResolver sets the metadata resolver; the default is meta.Default.
func WithResolver(r *meta.Resolver) Option {
	return func(m *Mapper) {
		if r != nil {
			m.resolver = r
		}
	}
}

// WithLogger sets the logger receiving one MappingEvent per call.
func WithLogger(l Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}
