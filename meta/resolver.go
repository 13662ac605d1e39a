package meta

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/igorpocta/data-mapper-sub001/filter"
	"github.com/igorpocta/data-mapper-sub001/hydrate"
)

// Resolver builds ClassMetadata once per type and caches it, errors
// included, for the lifetime of the Resolver. It is safe for concurrent use;
// concurrent first resolutions of one type share a single build.
type Resolver struct {
	registry *hydrate.Registry
	group    singleflight.Group
	cache    sync.Map // reflect.Type -> *resolved
	keys     sync.Map // reflect.Type -> singleflight key
	seq      atomic.Uint64
}

type resolved struct {
	meta *ClassMetadata
	err  error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry sets the registry hydration names are looked up in.
func WithRegistry(reg *hydrate.Registry) Option {
	return func(r *Resolver) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// NewResolver constructs a Resolver backed by hydrate.Default unless
// configured otherwise.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{registry: hydrate.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Default is the process-wide resolver.
var Default = NewResolver()

// Of resolves T with the Default resolver.
func Of[T any]() (*ClassMetadata, error) {
	return Default.Resolve(reflect.TypeFor[T]())
}

// Resolve returns the metadata of t, which must be a struct or a pointer to
// one. Nested struct types reachable from t are resolved too, so a field of
// an unsupported shape anywhere below t fails here rather than mid-mapping.
func (r *Resolver) Resolve(t reflect.Type) (*ClassMetadata, error) {
	if t == nil {
		return nil, &ResolveError{Err: ErrNotStruct}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &ResolveError{Type: t, Err: ErrNotStruct}
	}
	if c, ok := r.cache.Load(t); ok {
		res := c.(*resolved)
		return res.meta, res.err
	}
	v, _, _ := r.group.Do(r.typeKey(t), func() (any, error) {
		return r.resolve(t, map[reflect.Type]bool{}), nil
	})
	res := v.(*resolved)
	return res.meta, res.err
}

// typeKey hands out one key per type identity. Names are not unique:
// function-local types of one package share PkgPath and String.
func (r *Resolver) typeKey(t reflect.Type) string {
	if k, ok := r.keys.Load(t); ok {
		return k.(string)
	}
	k, _ := r.keys.LoadOrStore(t, strconv.FormatUint(r.seq.Add(1), 10))
	return k.(string)
}

func (r *Resolver) resolve(t reflect.Type, visiting map[reflect.Type]bool) *resolved {
	if c, ok := r.cache.Load(t); ok {
		return c.(*resolved)
	}
	visiting[t] = true
	m, err := r.build(t)
	if err == nil {
	nested:
		for i := range m.Fields {
			for _, nt := range objectTypes(m.Fields[i].Type) {
				if visiting[nt] {
					continue
				}
				if res := r.resolve(nt, visiting); res.err != nil {
					err = &ResolveError{Type: t, Field: m.Fields[i].Name, Err: res.err}
					break nested
				}
			}
		}
	}
	res := &resolved{meta: m, err: err}
	if err != nil {
		res.meta = nil
	}
	actual, _ := r.cache.LoadOrStore(t, res)
	return actual.(*resolved)
}

func objectTypes(d Descriptor) []reflect.Type {
	switch d.Kind {
	case KindObject:
		return []reflect.Type{d.Object}
	case KindArray, KindMap:
		return objectTypes(*d.Elem)
	}
	return nil
}

func (r *Resolver) build(t reflect.Type) (*ClassMetadata, error) {
	m := &ClassMetadata{
		Type:    t,
		Allowed: map[string]struct{}{},
		byKey:   map[string]int{},
	}
	if err := r.collect(m, t, nil); err != nil {
		return nil, err
	}
	return m, nil
}

// collect appends the fields of t to m. Untagged embedded structs have their
// fields promoted, as encoding/json does.
func (r *Resolver) collect(m *ClassMetadata, t reflect.Type, prefix []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)
		opts, err := parseMapTag(sf.Tag.Get(TagMap))
		if err != nil {
			return &ResolveError{Type: m.Type, Field: sf.Name, Err: err}
		}
		if opts.skip {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && opts.name == "" && sf.Tag.Get("json") == "" {
			if err := r.collect(m, sf.Type, index); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		key := sourceKey(sf, opts)
		if key == "-" {
			continue
		}
		f, err := r.field(sf, index, key, opts)
		if err != nil {
			return &ResolveError{Type: m.Type, Field: sf.Name, Err: err}
		}
		if _, dup := m.byKey[key]; dup {
			return &ResolveError{Type: m.Type, Field: sf.Name, Err: fmt.Errorf("key %q is already mapped", key)}
		}
		m.byKey[key] = len(m.Fields)
		m.Fields = append(m.Fields, f)
		m.Allowed[key] = struct{}{}
		for _, k := range f.Allow {
			m.Allowed[k] = struct{}{}
		}
	}
	return nil
}

func (r *Resolver) field(sf reflect.StructField, index []int, key string, opts tagOptions) (FieldMetadata, error) {
	d, err := describe(sf.Type)
	if err != nil {
		return FieldMetadata{}, err
	}
	if len(opts.enum) > 0 {
		if d, err = withEnum(d, opts.enum); err != nil {
			return FieldMetadata{}, err
		}
	}
	f := FieldMetadata{
		Name:     sf.Name,
		Index:    index,
		Key:      key,
		Type:     d,
		Optional: opts.optional,
		Allow:    opts.allow,
	}
	if src := sf.Tag.Get(TagFilter); src != "" {
		if f.Filters, err = filter.Parse(src); err != nil {
			return f, err
		}
	}
	if decl := sf.Tag.Get(TagHydrate); decl != "" {
		if f.Hydration, err = hydrate.Parse(decl, r.registry); err != nil {
			return f, err
		}
	}
	if opts.hasDefault {
		if f.Default, err = parseDefault(d, opts.defaultLit); err != nil {
			return f, err
		}
		f.HasDefault = true
	}
	f.Required = !f.HasDefault && !f.Optional && f.Hydration == nil && sf.Type.Kind() != reflect.Pointer
	return f, nil
}
