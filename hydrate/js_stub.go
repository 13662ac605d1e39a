//go:build !js_eval

package hydrate

// compileJS is unavailable without the js_eval build tag.
func compileJS(src string) (Func, error) {
	return nil, wrapCompileError("js", src, ErrEngineUnavailable)
}

// JSAvailable reports whether js: references can be compiled.
func JSAvailable() bool { return false }
