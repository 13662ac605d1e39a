package hydrate

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Compile resolves a hydration reference into a Func. References are
// resolved once, when a type's metadata is built:
//
//	name            a function registered in reg
//	expr:<source>   an expr-lang expression
//	cel:<source>    a CEL expression
//	js:<source>     a JavaScript expression (requires the js_eval build tag)
//	path:<jsonpath> a JSONPath query over the payload
//
// Expressions see the payload as `payload`; when the payload is a map its
// keys are also exposed as top-level variables (expr and js only). A nil
// reg means the Default registry.
func Compile(ref string, reg *Registry) (Func, error) {
	if reg == nil {
		reg = Default()
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &Error{Ref: ref, Err: fmt.Errorf("empty reference: %w", ErrNotCallable)}
	}
	if engine, src, ok := strings.Cut(ref, ":"); ok {
		src = strings.TrimSpace(src)
		if src == "" {
			return nil, &Error{Ref: ref, Err: fmt.Errorf("empty %s source", engine)}
		}
		switch strings.ToLower(engine) {
		case "expr":
			return compileExpr(src, reg)
		case "cel":
			return compileCEL(src)
		case "js":
			return compileJS(src)
		case "path":
			return compilePath(src)
		default:
			return nil, &Error{Ref: ref, Err: fmt.Errorf("unknown engine %q", engine)}
		}
	}
	fn, ok := reg.Lookup(ref)
	if !ok {
		return nil, &Error{Ref: ref, Err: fmt.Errorf("function not registered: %w", ErrNotCallable)}
	}
	return fn, nil
}

// compilePath returns the single match as-is, all matches as a list when
// the query selects several, and nil when nothing matches.
func compilePath(src string) (Func, error) {
	x, err := jp.ParseString(src)
	if err != nil {
		return nil, wrapCompileError("path", src, err)
	}
	return func(payload any) (any, error) {
		results := x.Get(payload)
		switch len(results) {
		case 0:
			return nil, nil
		case 1:
			return results[0], nil
		}
		return results, nil
	}, nil
}

func payloadEnv(payload any) map[string]any {
	env := map[string]any{}
	if m, ok := payload.(map[string]any); ok {
		for k, v := range m {
			env[k] = v
		}
	}
	env["payload"] = payload
	return env
}
