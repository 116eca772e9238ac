package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/middleware"
)

// RequireTableSchema decodes the request body as a table schema, stores it in
// the request context on success, or responds with the Issues payload:
// 400 when the body cannot be decoded, 422 when it is not a valid schema.
// A nil validator uses tableschema.Default().
func RequireTableSchema(v *ts.Validator, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			doc, iss, err := middleware.CheckRequest(v, c.Request(), limit)
			if err != nil {
				return c.JSON(middleware.StatusFor(err), middleware.ErrorBody(err))
			}
			if len(iss) > 0 {
				return c.JSON(http.StatusUnprocessableEntity, middleware.ErrorPayload(iss))
			}
			ctx := middleware.ContextWithDocument(c.Request().Context(), doc)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDocument fetches the validated document from echo.Context.
func GetDocument(c echo.Context) (any, bool) {
	return middleware.DocumentFromContext(c.Request().Context())
}
