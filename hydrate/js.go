//go:build js_eval

package hydrate

import (
	"fmt"

	"github.com/dop251/goja"
)

// compileJS compiles src once; each call runs it on a fresh runtime since
// goja runtimes are not safe for concurrent use.
func compileJS(src string) (Func, error) {
	program, err := goja.Compile("", fmt.Sprintf("(function(){ return (%s); })()", src), false)
	if err != nil {
		return nil, wrapCompileError("js", src, err)
	}
	return func(payload any) (any, error) {
		vm := goja.New()
		for k, v := range payloadEnv(payload) {
			if err := vm.Set(k, v); err != nil {
				return nil, err
			}
		}
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, err
		}
		return value.Export(), nil
	}, nil
}

// JSAvailable reports whether js: references can be compiled.
func JSAvailable() bool { return true }
