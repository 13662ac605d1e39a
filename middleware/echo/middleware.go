package echomw

import (
	"github.com/labstack/echo/v4"

	datamapper "github.com/igorpocta/data-mapper-sub001"
	"github.com/igorpocta/data-mapper-sub001/middleware"
)

// ValidateJSON maps the request body into a T with m (or
// middleware.DefaultMapper when nil). On success the value is stored in the
// request context; otherwise a JSON error payload is returned.
func ValidateJSON[T any](m *datamapper.Mapper) echo.MiddlewareFunc {
	if m == nil {
		m = middleware.DefaultMapper()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.DecodeRequest[T](m, c.Request())
			if err != nil {
				return c.JSON(middleware.StatusFor(err), middleware.ErrorPayload(err))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithDecoded(c.Request().Context(), v)))
			return next(c)
		}
	}
}

// GetDecoded fetches the decoded T from echo.Context.
func GetDecoded[T any](c echo.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
