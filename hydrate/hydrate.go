// Package hydrate holds the per-field function overrides used while
// constructing objects: instead of looking up the field's own key and
// coercing it, a bound function computes the value from a payload whose
// scope is chosen by the binding's Mode.
package hydrate

import (
	"fmt"
	"strings"
)

// Mode selects the payload handed to a hydration function.
type Mode int

const (
	// ModeValue passes the raw value at the field's own key (nil if absent).
	ModeValue Mode = iota
	// ModeParent passes the whole input map at the current nesting level.
	ModeParent
	// ModeFull passes the input map of the outermost call, at any depth.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeParent:
		return "parent"
	case ModeFull:
		return "full"
	default:
		return "value"
	}
}

// ParseMode maps "value", "parent" and "full" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "value":
		return ModeValue, true
	case "parent":
		return ModeParent, true
	case "full":
		return ModeFull, true
	}
	return ModeValue, false
}

// Func computes a field value from a dynamic payload.
type Func func(payload any) (any, error)

// Binding ties a resolved Func to a field. Ref is the declaration it was
// resolved from, kept for error messages.
type Binding struct {
	Ref  string
	Func Func
	Mode Mode
}

// Call invokes the bound function. Panics inside the function are recovered
// and reported as errors so a single bad field cannot abort a whole mapping.
func (b *Binding) Call(payload any) (out any, err error) {
	if b == nil || b.Func == nil {
		return nil, &Error{Ref: "<nil>", Err: ErrNotCallable}
	}
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &Error{Ref: b.Ref, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err = b.Func(payload)
	if err != nil {
		return nil, &Error{Ref: b.Ref, Err: err}
	}
	return out, nil
}

// Parse splits a declaration of the form "[mode:]ref" and resolves ref with
// Compile against reg. The mode prefix is optional and defaults to value.
//
//	hydrate:"fullName"
//	hydrate:"parent:fullName"
//	hydrate:"full:expr:payload.meta.version"
func Parse(decl string, reg *Registry) (*Binding, error) {
	decl = strings.TrimSpace(decl)
	mode := ModeValue
	if i := strings.IndexByte(decl, ':'); i > 0 {
		if m, ok := ParseMode(decl[:i]); ok {
			mode = m
			decl = strings.TrimSpace(decl[i+1:])
		}
	}
	fn, err := Compile(decl, reg)
	if err != nil {
		return nil, err
	}
	return &Binding{Ref: decl, Func: fn, Mode: mode}, nil
}
