package hydrate

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
)

// compileExpr compiles src with expr-lang. Functions registered in reg are
// callable from the expression by name with a single argument.
func compileExpr(src string, reg *Registry) (Func, error) {
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range reg.Names() {
		fn, _ := reg.Lookup(name)
		options = append(options, exprlang.Function(name, func(args ...any) (any, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s expects exactly one argument, got %d", name, len(args))
			}
			return fn(args[0])
		}))
	}
	program, err := exprlang.Compile(src, options...)
	if err != nil {
		return nil, wrapCompileError("expr", src, err)
	}
	return func(payload any) (any, error) {
		return exprlang.Run(program, payloadEnv(payload))
	}, nil
}
