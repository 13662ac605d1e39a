package datamapper

import "context"

type ctxKey int

const strictKey ctxKey = iota

// WithStrict overrides the mapper's strict mode for calls made with the
// returned context.
func WithStrict(ctx context.Context, strict bool) context.Context {
	return context.WithValue(ctx, strictKey, strict)
}

// strictFrom reports the override stored in ctx, if any.
func strictFrom(ctx context.Context) (bool, bool) {
	if ctx == nil {
		return false, false
	}
	v, ok := ctx.Value(strictKey).(bool)
	return v, ok
}
