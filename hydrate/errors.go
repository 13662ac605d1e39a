package hydrate

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCallable is returned when a reference does not resolve to a function.
	ErrNotCallable = errors.New("hydrate: reference is not callable")
	// ErrEngineUnavailable is returned for expression engines compiled out of the binary.
	ErrEngineUnavailable = errors.New("hydrate: expression engine not available in this build")
)

// Error carries the hydration reference alongside the originating error.
type Error struct {
	Ref string
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("hydrate: %s: %v", e.Ref, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapCompileError(engine, src string, err error) error {
	if err == nil {
		return nil
	}
	var he *Error
	if errors.As(err, &he) {
		return err
	}
	return &Error{Ref: engine + ":" + src, Err: err}
}
