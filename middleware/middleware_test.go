package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUser struct {
	Name  string `map:"name"`
	Age   int    `map:"age"`
	Email string `map:"email,optional"`
}

func serve(t *testing.T, body string) (*httptest.ResponseRecorder, *createUser) {
	t.Helper()
	var got *createUser
	h := DecodeJSON[createUser](nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := DecodedFromContext[createUser](r.Context())
		require.True(t, ok)
		got = &u
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec, got
}

func TestDecodeJSON_OK(t *testing.T) {
	rec, got := serve(t, `{"name":"Ada","age":"36"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, createUser{Name: "Ada", Age: 36}, *got)
}

func TestDecodeJSON_ValidationFailure(t *testing.T) {
	rec, got := serve(t, `{"name":"Ada","age":"old","role":"admin"}`)
	assert.Nil(t, got)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		Issues []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"issues"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Issues, 2)
	assert.Equal(t, "role", payload.Issues[0].Path)
	assert.Equal(t, "unknown_key", payload.Issues[0].Code)
	assert.Equal(t, "age", payload.Issues[1].Path)
	assert.Equal(t, "Cannot cast value of field 'age' to int", payload.Errors["age"])
}

func TestDecodeJSON_DuplicateKeyRejected(t *testing.T) {
	rec, got := serve(t, `{"name":"Ada","name":"Grace","age":1}`)
	assert.Nil(t, got)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate_key")
}

func TestDecodeJSON_Malformed(t *testing.T) {
	rec, got := serve(t, `{"name":`)
	assert.Nil(t, got)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestDecodedFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := DecodedFromContext[createUser](req.Context())
	assert.False(t, ok)
}

type badTarget struct {
	Events chan int `map:"events"`
}

func TestDecodeJSON_ServerSideFaults(t *testing.T) {
	for name, h := range map[string]http.Handler{
		"unmappable type": DecodeJSON[badTarget](nil)(http.NotFoundHandler()),
		"pointer type":    DecodeJSON[*createUser](nil)(http.NotFoundHandler()),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada","age":1}`)))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	}
}
