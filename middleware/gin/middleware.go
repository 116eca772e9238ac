package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/middleware"
)

// RequireTableSchema decodes the request body as a table schema, stores it in
// the request context, and on failure aborts with the Issues payload
// (400 for undecodable bodies, 422 for invalid schemas).
// A nil validator uses tableschema.Default().
func RequireTableSchema(v *ts.Validator, limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, iss, err := middleware.CheckRequest(v, c.Request, limit)
		if err != nil {
			c.AbortWithStatusJSON(middleware.StatusFor(err), middleware.ErrorBody(err))
			return
		}
		if len(iss) > 0 {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, middleware.ErrorPayload(iss))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDocument(c.Request.Context(), doc))
		c.Next()
	}
}

// GetDocument fetches the validated document from gin.Context.
func GetDocument(c *gin.Context) (any, bool) {
	return middleware.DocumentFromContext(c.Request.Context())
}
