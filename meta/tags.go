package meta

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/igorpocta/data-mapper-sub001/coerce"
)

// Struct tags read by the resolver.
const (
	TagMap     = "map"
	TagFilter  = "filter"
	TagHydrate = "hydrate"
)

type tagOptions struct {
	skip       bool
	name       string
	defaultLit string
	hasDefault bool
	optional   bool
	enum       []string
	allow      []string
}

// parseMapTag reads `map:"name=alias,default=<literal>,optional,enum=a|b,allow=x|y"`.
// Commas inside quotes, brackets or braces belong to the default literal.
func parseMapTag(tag string) (tagOptions, error) {
	var o tagOptions
	if strings.TrimSpace(tag) == "-" {
		o.skip = true
		return o, nil
	}
	for _, part := range splitTag(tag) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		switch strings.TrimSpace(key) {
		case "name":
			o.name = strings.TrimSpace(val)
		case "default":
			o.defaultLit = strings.TrimSpace(val)
			o.hasDefault = true
		case "optional":
			o.optional = true
		case "enum":
			o.enum = splitList(val)
			if len(o.enum) == 0 {
				return o, fmt.Errorf("enum needs at least one value")
			}
		case "allow":
			o.allow = splitList(val)
		default:
			if hasVal {
				return o, fmt.Errorf("unknown map tag option %q", key)
			}
			// bare leading word is the alias, as in json tags
			if o.name != "" {
				return o, fmt.Errorf("unknown map tag option %q", part)
			}
			o.name = part
		}
	}
	return o, nil
}

func splitTag(tag string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, tag[start:i])
			start = i + 1
		}
	}
	return append(parts, tag[start:])
}

// sourceKey resolves a field's input key.
// Priority: map:"name=..." > json tag name > field name; "-" disables the field.
func sourceKey(sf reflect.StructField, o tagOptions) string {
	if o.skip {
		return "-"
	}
	if o.name != "" {
		return o.name
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if name, _, _ := strings.Cut(jt, ","); name != "" {
			return name
		}
	}
	return sf.Name
}

// parseDefault turns a literal into a value of d.GoType. Scalars go through
// the coercion rules; everything else is read as JSON.
func parseDefault(d Descriptor, lit string) (any, error) {
	if d.Nullable && lit == "null" {
		return reflect.Zero(d.GoType).Interface(), nil
	}
	if d.Kind != KindScalar {
		ptr := reflect.New(d.GoType)
		if err := json.Unmarshal([]byte(lit), ptr.Interface()); err != nil {
			return nil, fmt.Errorf("invalid default %q: %w", lit, err)
		}
		return ptr.Elem().Interface(), nil
	}

	base := d.GoType
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	v := reflect.New(base).Elem()
	switch d.Scalar {
	case coerce.Bool:
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return nil, fmt.Errorf("invalid default %q: %w", lit, err)
		}
		v.SetBool(b)
	case coerce.String:
		if s, err := strconv.Unquote(lit); err == nil {
			lit = s
		}
		v.SetString(lit)
	default:
		if err := coerce.Into(v, lit); err != nil {
			return nil, fmt.Errorf("invalid default %q: %w", lit, err)
		}
	}
	if !d.Allows(v.Interface()) {
		return nil, fmt.Errorf("default %q is not one of %s", lit, strings.Join(d.Enum, "|"))
	}
	if d.Nullable {
		p := reflect.New(base)
		p.Elem().Set(v)
		return p.Interface(), nil
	}
	return v.Interface(), nil
}
