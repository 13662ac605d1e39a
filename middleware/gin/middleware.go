package ginmw

import (
	"github.com/gin-gonic/gin"

	datamapper "github.com/igorpocta/data-mapper-sub001"
	"github.com/igorpocta/data-mapper-sub001/middleware"
)

// ValidateJSON maps the request body into a T with m (or
// middleware.DefaultMapper when nil), stores it in the request context and
// aborts with a JSON error payload on failure.
func ValidateJSON[T any](m *datamapper.Mapper) gin.HandlerFunc {
	if m == nil {
		m = middleware.DefaultMapper()
	}
	return func(c *gin.Context) {
		v, err := middleware.DecodeRequest[T](m, c.Request)
		if err != nil {
			c.AbortWithStatusJSON(middleware.StatusFor(err), middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), v))
		c.Next()
	}
}

// GetDecoded fetches the decoded T from gin.Context.
func GetDecoded[T any](c *gin.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
