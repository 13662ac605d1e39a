package hydrate

import (
	celgo "github.com/google/cel-go/cel"
)

// compileCEL type-checks src against a single dyn variable `payload`.
func compileCEL(src string) (Func, error) {
	env, err := celgo.NewEnv(celgo.Variable("payload", celgo.DynType))
	if err != nil {
		return nil, wrapCompileError("cel", src, err)
	}
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, wrapCompileError("cel", src, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapCompileError("cel", src, err)
	}
	return func(payload any) (any, error) {
		out, _, err := program.Eval(map[string]any{"payload": payload})
		if err != nil {
			return nil, err
		}
		return out.Value(), nil
	}, nil
}
