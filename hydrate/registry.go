package hydrate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores hydration functions keyed by case-insensitive name.
type Registry struct {
	mu        sync.RWMutex
	functions map[string]entry
}

type entry struct {
	name string
	fn   Func
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{functions: make(map[string]entry)}
}

// Register stores fn under name guarding against duplicates.
func (r *Registry) Register(name string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("hydrate: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("hydrate: function name must not be empty")
	}
	if strings.ContainsRune(name, ':') {
		return fmt.Errorf("hydrate: function name %q must not contain ':'", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]entry)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("hydrate: function %q already registered", name)
	}
	r.functions[key] = entry{name: name, fn: fn}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	e := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	return e.fn, e.fn != nil
}

// Clone returns a shallow copy of the registry.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &Registry{functions: make(map[string]entry, len(r.functions))}
	for key, e := range r.functions {
		clone.functions[key] = e
	}
	return clone
}

// Names returns registered function names, as registered, sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for _, e := range r.functions {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry consulted by the default
// metadata resolver.
func Default() *Registry { return defaultRegistry }

// Register adds fn to the default registry.
func Register(name string, fn Func) error { return defaultRegistry.Register(name, fn) }
