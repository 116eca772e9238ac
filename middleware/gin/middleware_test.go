package ginmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequireTableSchema(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/schemas", RequireTableSchema(nil, 0), func(c *gin.Context) {
		if _, ok := GetDocument(c); !ok {
			t.Fatalf("document missing")
		}
		c.Status(http.StatusCreated)
	})

	cases := []struct {
		body string
		want int
	}{
		{`{"fields":[{"name":"id"}],"primaryKey":"id"}`, http.StatusCreated},
		{`{"fields":[]}`, http.StatusUnprocessableEntity},
		{`not: [valid`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/schemas", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: got %d want %d (%s)", tc.body, rec.Code, tc.want, rec.Body.String())
		}
	}
}
