// Package middleware decodes JSON request bodies into typed values at HTTP
// boundaries. The net/http helpers live here; framework adapters for gin and
// echo are separate modules under this directory.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	datamapper "github.com/igorpocta/data-mapper-sub001"
	"github.com/igorpocta/data-mapper-sub001/meta"
)

// MaxBodyBytes caps the request body read by DecodeRequest.
const MaxBodyBytes int64 = 1 << 20

// ctxKeyDecoded is a typed context key; the generic struct keeps keys
// distinct per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a decoded T to the context.
func ContextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

// DecodedFromContext retrieves a decoded T from ctx.
func DecodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// DefaultMapper returns the recommended mapper for HTTP JSON boundaries:
// strict mode on and duplicate keys treated as errors.
func DefaultMapper() *datamapper.Mapper {
	return datamapper.New(
		datamapper.WithStrictMode(true),
		datamapper.WithDuplicateKeys(datamapper.Error),
	)
}

// DecodeRequest reads r's body (bounded by MaxBodyBytes) and maps it into a T.
func DecodeRequest[T any](m *datamapper.Mapper, r *http.Request) (T, error) {
	var out T
	if m == nil {
		m = DefaultMapper()
	}
	if r.Body == nil {
		return out, &datamapper.ParseError{Format: "json", Codec: "http", Err: io.ErrUnexpectedEOF}
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return out, fmt.Errorf("middleware: read body: %w", err)
	}
	if int64(len(body)) > MaxBodyBytes {
		return out, fmt.Errorf("middleware: body exceeds %d bytes", MaxBodyBytes)
	}
	err = m.FromJSON(r.Context(), body, &out)
	return out, err
}

// ErrorPayload shapes a decoding error for a JSON response. Validation
// failures carry the issue list plus a key->message map.
func ErrorPayload(err error) map[string]any {
	if ve, ok := datamapper.AsValidationError(err); ok {
		return map[string]any{"issues": ve.Issues, "errors": ve.Map()}
	}
	var pe *datamapper.ParseError
	if errors.As(err, &pe) {
		return map[string]any{"error": pe.Error()}
	}
	return map[string]any{"error": err.Error()}
}

// StatusFor maps a decoding error to an HTTP status: 422 for validation
// failures, 500 when T itself cannot be mapped (a server-side fault), 400
// otherwise.
func StatusFor(err error) int {
	if _, ok := datamapper.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}
	var re *meta.ResolveError
	if errors.As(err, &re) || errors.Is(err, datamapper.ErrInvalidTarget) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// WriteError writes err as a JSON error response.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(err))
	_ = json.NewEncoder(w).Encode(ErrorPayload(err))
}

// DecodeJSON returns a net/http middleware that maps the request body into a
// T, stores it in the request context and calls next. Failures are answered
// with WriteError and next is not called.
func DecodeJSON[T any](m *datamapper.Mapper) func(http.Handler) http.Handler {
	if m == nil {
		m = DefaultMapper()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := DecodeRequest[T](m, r)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), v)))
		})
	}
}
