package datamapper

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/igorpocta/data-mapper-sub001/coerce"
	"github.com/igorpocta/data-mapper-sub001/hydrate"
	"github.com/igorpocta/data-mapper-sub001/meta"
)

// builder carries the state of one construction call. Issues are returned
// up the call tree and only turned into an error by construct.
type builder struct {
	strict   bool
	maxDepth int
	root     map[string]any
	resolver *meta.Resolver
}

func (m *Mapper) construct(ctx context.Context, data map[string]any, target any, ev *MappingEvent, pre Issues) error {
	dst, err := targetStruct(target)
	if err != nil {
		return err
	}
	ev.Type = dst.Type()
	if err := ctx.Err(); err != nil {
		return err
	}
	cm, err := m.resolver.Resolve(dst.Type())
	if err != nil {
		return fmt.Errorf("datamapper: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	b := &builder{
		strict:   m.isStrict(ctx),
		maxDepth: m.maxDepth,
		root:     data,
		resolver: m.resolver,
	}
	ev.Strict = b.strict

	tmp := reflect.New(dst.Type()).Elem()
	issues := append(pre, b.object(cm, data, tmp, "", 1)...)
	ev.Issues = len(issues)
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	dst.Set(tmp)
	return nil
}

// object fills dst from data. Unknown keys are reported first (sorted, as
// Go maps carry no order), then fields in declaration order.
func (b *builder) object(cm *meta.ClassMetadata, data map[string]any, dst reflect.Value, path string, depth int) Issues {
	var issues Issues
	if b.strict {
		for _, k := range sortedKeys(data) {
			if !cm.Allows(k) {
				issues = AppendIssues(issues, newIssue(join(path, k), CodeUnknownKey, map[string]string{"key": k}, nil))
			}
		}
	}
	for i := range cm.Fields {
		f := &cm.Fields[i]
		fpath := join(path, f.Key)
		fv := dst.FieldByIndex(f.Index)
		if f.Hydration != nil {
			issues = append(issues, b.hydrate(f, data, fv, fpath)...)
			continue
		}
		raw, ok := data[f.Key]
		if !ok {
			switch {
			case f.HasDefault:
				fv.Set(defaultValue(f, fv.Type()))
			case f.Required:
				issues = AppendIssues(issues, newIssue(fpath, CodeRequired, map[string]string{"key": f.Key}, nil))
			}
			continue
		}
		issues = append(issues, b.value(f.Type, raw, fv, fpath, f.Key, depth)...)
	}
	return issues
}

// hydrate runs the field's bound function. Its result is stored as-is.
func (b *builder) hydrate(f *meta.FieldMetadata, data map[string]any, dst reflect.Value, path string) Issues {
	var payload any
	switch f.Hydration.Mode {
	case hydrate.ModeParent:
		payload = data
	case hydrate.ModeFull:
		payload = b.root
	default:
		payload = data[f.Key]
	}
	out, err := f.Hydration.Call(payload)
	if err == nil {
		err = assign(dst, out)
	}
	if err != nil {
		return Issues{newIssue(path, CodeHydration, map[string]string{"key": f.Key, "reason": err.Error()}, err)}
	}
	return nil
}

// value coerces raw into dst according to d. dst is only written when the
// whole value converts cleanly.
func (b *builder) value(d meta.Descriptor, raw any, dst reflect.Value, path, key string, depth int) Issues {
	if raw == nil {
		if d.Nullable {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		return Issues{castIssue(path, key, d, nil)}
	}
	if dst.Kind() == reflect.Pointer {
		p := reflect.New(dst.Type().Elem())
		issues := b.value(d, raw, p.Elem(), path, key, depth)
		if len(issues) == 0 {
			dst.Set(p)
		}
		return issues
	}

	switch d.Kind {
	case meta.KindAny:
		dst.Set(reflect.ValueOf(raw))
		return nil

	case meta.KindScalar:
		if err := coerce.Into(dst, raw); err != nil {
			return Issues{castIssue(path, key, d, err)}
		}
		if !d.Allows(dst.Interface()) {
			dst.Set(reflect.Zero(dst.Type()))
			return Issues{newIssue(path, CodeInvalidEnum, map[string]string{"key": key, "value": fmt.Sprint(raw)}, nil)}
		}
		return nil

	case meta.KindArray:
		list, ok := listOf(raw)
		if !ok {
			return Issues{castIssue(path, key, d, nil)}
		}
		out := reflect.MakeSlice(dst.Type(), len(list), len(list))
		var issues Issues
		for i, item := range list {
			issues = append(issues, b.value(*d.Elem, item, out.Index(i), join(path, strconv.Itoa(i)), key, depth)...)
		}
		if len(issues) > 0 {
			return issues
		}
		dst.Set(out)
		return nil

	case meta.KindMap:
		obj, ok := objectOf(raw)
		if !ok {
			return Issues{castIssue(path, key, d, nil)}
		}
		t := dst.Type()
		out := reflect.MakeMapWithSize(t, len(obj))
		var issues Issues
		for _, k := range sortedKeys(obj) {
			ev := reflect.New(t.Elem()).Elem()
			iss := b.value(*d.Elem, obj[k], ev, join(path, k), key, depth)
			if len(iss) > 0 {
				issues = append(issues, iss...)
				continue
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
		}
		if len(issues) > 0 {
			return issues
		}
		dst.Set(out)
		return nil

	case meta.KindObject:
		obj, ok := objectOf(raw)
		if !ok {
			return Issues{castIssue(path, key, d, nil)}
		}
		if depth >= b.maxDepth {
			return Issues{newIssue(path, CodeMaxDepth, map[string]string{"key": key, "max": strconv.Itoa(b.maxDepth)}, nil)}
		}
		cm, err := b.resolver.Resolve(d.Object)
		if err != nil {
			return Issues{castIssue(path, key, d, err)}
		}
		tmp := reflect.New(d.Object).Elem()
		issues := b.object(cm, obj, tmp, path, depth+1)
		if len(issues) == 0 {
			dst.Set(tmp)
		}
		return issues
	}
	return Issues{castIssue(path, key, d, nil)}
}

func castIssue(path, key string, d meta.Descriptor, cause error) Issue {
	return newIssue(path, CodeInvalidType, map[string]string{"key": key, "type": d.String()}, cause)
}

// defaultValue returns a copy of the field default so that callers cannot
// mutate the cached value through the constructed object.
func defaultValue(f *meta.FieldMetadata, t reflect.Type) reflect.Value {
	v := reflect.ValueOf(f.Default)
	if !v.IsValid() {
		return reflect.Zero(t)
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(c, v)
		return c
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), iter.Value())
		}
		return c
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(v.Elem())
		return p
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
