package datamapper

import (
	"reflect"
	"time"
)

// Direction tells whether a mapping built or flattened an object.
type Direction string

const (
	DirectionFrom Direction = "from"
	DirectionTo   Direction = "to"
)

// MappingEvent captures one public mapping call.
type MappingEvent struct {
	Direction Direction
	Format    string // "map", "json" or "yaml"
	Type      reflect.Type
	Strict    bool
	Duration  time.Duration
	// Issues counts validation issues; Warnings are the issues reported
	// without failing the call (duplicate keys at Warn severity).
	Issues   int
	Warnings Issues
	Err      error
}

// Logger receives mapping events.
type Logger interface {
	LogMapping(MappingEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(MappingEvent)

// LogMapping calls f(event).
func (f LoggerFunc) LogMapping(event MappingEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogMapping(MappingEvent) {}
