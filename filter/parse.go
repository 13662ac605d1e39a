package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/igorpocta/data-mapper-sub001/coerce"
)

// SyntaxError reports an invalid filter declaration.
type SyntaxError struct {
	Src string
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter: %s at offset %d in %q", e.Msg, e.Pos, e.Src)
}

// Parse reads a filter chain declaration such as
//
//	each(trim)|unique|sort
//	keys(allow=id name)|ksort|reverse
//	slice(1,2,preserve)|cast(int,recursive)
//
// Filters are separated by '|'. Arguments go in parentheses, separated by
// ','; named arguments are written name=value, list values are separated by
// spaces and values may be quoted.
func Parse(src string) (Chain, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.eof() {
		return nil, nil
	}
	chain, err := p.chain()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return chain, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Chain {
	c, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return c
}

type parser struct {
	src string
	pos int
}

type arg struct {
	name  string
	value string
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) errorf(format string, a ...any) error {
	return &SyntaxError{Src: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, a...)}
}

func (p *parser) chain() (Chain, error) {
	var out Chain
	for {
		p.skipSpace()
		f, err := p.item()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
		p.skipSpace()
		if p.eof() || p.src[p.pos] != '|' {
			return out, nil
		}
		p.pos++
	}
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || p.pos > start && c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) item() (Filter, error) {
	start := p.pos
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected filter name")
	}
	p.skipSpace()
	var args []arg
	if !p.eof() && p.src[p.pos] == '(' {
		p.pos++
		var err error
		if args, err = p.args(); err != nil {
			return nil, err
		}
	}
	f, err := build1(strings.ToLower(name), args)
	if err != nil {
		return nil, &SyntaxError{Src: p.src, Pos: start, Msg: err.Error()}
	}
	return f, nil
}

func (p *parser) args() ([]arg, error) {
	var out []arg
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated argument list")
		}
		if p.src[p.pos] == ')' {
			p.pos++
			return out, nil
		}
		a, err := p.arg()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated argument list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ')':
		default:
			return nil, p.errorf("expected ',' or ')'")
		}
	}
}

func (p *parser) arg() (arg, error) {
	var a arg
	mark := p.pos
	if name := p.ident(); name != "" {
		p.skipSpace()
		if !p.eof() && p.src[p.pos] == '=' {
			p.pos++
			p.skipSpace()
			a.name = strings.ToLower(name)
		} else {
			p.pos = mark
		}
	}
	if !p.eof() && (p.src[p.pos] == '"' || p.src[p.pos] == '\'') {
		v, err := p.quoted()
		if err != nil {
			return a, err
		}
		a.value = v
		return a, nil
	}
	start := p.pos
	depth := 0
	for !p.eof() {
		c := p.src[p.pos]
		if c == '(' {
			depth++
		} else if c == ')' {
			if depth == 0 {
				break
			}
			depth--
		} else if c == ',' && depth == 0 {
			break
		}
		p.pos++
	}
	if depth != 0 {
		return a, p.errorf("unbalanced parentheses")
	}
	a.value = strings.TrimSpace(p.src[start:p.pos])
	return a, nil
}

func (p *parser) quoted() (string, error) {
	q := p.src[p.pos]
	start := p.pos
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		case c == q:
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	p.pos = start
	return "", p.errorf("unterminated quoted value")
}

// build1 turns a parsed item into a Filter.
func build1(name string, args []arg) (Filter, error) {
	switch name {
	case "each":
		if len(args) != 1 || args[0].value == "" {
			return nil, fmt.Errorf("each expects one filter argument")
		}
		sub, err := Parse(args[0].value)
		if err != nil {
			return nil, err
		}
		return EachFilter{Sub: sub}, nil
	case "trim", "stringtrim":
		chars, err := lookup(args, "chars", 0)
		if err != nil {
			return nil, err
		}
		return TrimFilter{Chars: chars}, nil
	case "unique", "uniquearray":
		return UniqueFilter{}, noArgs(name, args)
	case "sort", "sortarray":
		desc, err := direction(args)
		return SortFilter{Desc: desc}, err
	case "ksort", "sortbykey", "sortarraybykey":
		desc, err := direction(args)
		return SortByKeyFilter{Desc: desc}, err
	case "reverse", "reversearray":
		return ReverseFilter{}, noArgs(name, args)
	case "keys", "filterkeys":
		var f KeysFilter
		for _, a := range args {
			switch a.name {
			case "allow":
				f.Allow = strings.Fields(a.value)
			case "deny":
				f.Deny = strings.Fields(a.value)
			default:
				return nil, fmt.Errorf("keys expects allow= or deny= arguments")
			}
		}
		if len(f.Allow) == 0 && len(f.Deny) == 0 {
			return nil, fmt.Errorf("keys needs at least one of allow= or deny=")
		}
		return f, nil
	case "slice", "slicearray":
		return parseSlice(args)
	case "limit", "limitarray":
		cs, err := lookup(args, "count", 0)
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(cs)
		if err != nil {
			return nil, fmt.Errorf("limit count %q is not an integer", cs)
		}
		preserve, err := flag(args, "preserve", 1)
		return LimitFilter{Count: count, PreserveKeys: preserve}, err
	case "flatten", "flattenarray":
		return FlattenFilter{}, noArgs(name, args)
	case "cast", "arraycast":
		ts, err := lookup(args, "type", 0)
		if err != nil {
			return nil, err
		}
		s, ok := coerce.ParseScalar(ts)
		if !ok {
			return nil, fmt.Errorf("cast type %q is not a scalar type", ts)
		}
		recursive, err := flag(args, "recursive", 1)
		return CastFilter{Scalar: s, Recursive: recursive}, err
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

func parseSlice(args []arg) (Filter, error) {
	var f SliceFilter
	pos := 0
	for _, a := range args {
		name := a.name
		if name == "" {
			switch {
			case a.value == "preserve":
				f.PreserveKeys = true
				continue
			case pos == 0:
				name = "offset"
			case pos == 1:
				name = "length"
			default:
				return nil, fmt.Errorf("slice takes offset, length and preserve")
			}
			pos++
		}
		switch name {
		case "offset", "length":
			n, err := strconv.Atoi(a.value)
			if err != nil {
				return nil, fmt.Errorf("slice %s %q is not an integer", name, a.value)
			}
			if name == "offset" {
				f.Offset = n
			} else {
				f.Length = &n
			}
		case "preserve", "preservekeys":
			b, err := strconv.ParseBool(a.value)
			if err != nil {
				return nil, fmt.Errorf("slice preserve %q is not a boolean", a.value)
			}
			f.PreserveKeys = b
		default:
			return nil, fmt.Errorf("slice does not take %q", name)
		}
	}
	if pos == 0 && len(args) == 0 {
		return nil, fmt.Errorf("slice needs an offset")
	}
	return f, nil
}

// lookup returns the named argument, or the positional one at index.
func lookup(args []arg, name string, index int) (string, error) {
	pos := 0
	for _, a := range args {
		if a.name == name {
			return a.value, nil
		}
		if a.name == "" {
			if pos == index {
				return a.value, nil
			}
			pos++
		}
		if a.name != "" && a.name != name && !known(a.name) {
			return "", fmt.Errorf("unexpected argument %q", a.name)
		}
	}
	if index == 0 && name != "chars" {
		return "", fmt.Errorf("missing %s argument", name)
	}
	return "", nil
}

func known(name string) bool {
	switch name {
	case "chars", "count", "type", "preserve", "recursive", "desc":
		return true
	}
	return false
}

// flag reads a boolean that may be given as a bare word ("recursive"),
// positionally ("true") or named ("recursive=true").
func flag(args []arg, name string, index int) (bool, error) {
	pos := 0
	for _, a := range args {
		switch {
		case a.name == name:
			return strconv.ParseBool(a.value)
		case a.name == "" && a.value == name:
			return true, nil
		case a.name == "":
			if pos == index {
				if b, err := strconv.ParseBool(a.value); err == nil {
					return b, nil
				}
			}
			pos++
		}
	}
	return false, nil
}

func direction(args []arg) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	if len(args) > 1 {
		return false, fmt.Errorf("sort takes at most one argument")
	}
	a := args[0]
	if a.name == "desc" {
		return strconv.ParseBool(a.value)
	}
	switch strings.ToLower(a.value) {
	case "desc":
		return true, nil
	case "asc":
		return false, nil
	}
	return false, fmt.Errorf("sort direction %q must be asc or desc", a.value)
}

func noArgs(name string, args []arg) error {
	if len(args) > 0 {
		return fmt.Errorf("%s takes no arguments", name)
	}
	return nil
}
