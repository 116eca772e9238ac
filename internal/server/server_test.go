package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/rules"
)

func newTestServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s.Handler()
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestValidate_Valid(t *testing.T) {
	h := newTestServer(t, Config{})
	rec := do(h, http.MethodPost, "/v1/validate", "application/json", fixture(t, "schema_valid_full.json"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Issues)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), `"issues":[]`)
}

func TestValidate_ReportsEveryIssue(t *testing.T) {
	h := newTestServer(t, Config{})
	rec := do(h, http.MethodPost, "/v1/validate", "application/json", fixture(t, "schema_invalid_multiple_errors.json"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Issues, 5)
	assert.Equal(t, ts.CodeInvalidEnum, resp.Issues[0].Code)
	assert.Equal(t, "/fields/1/type", resp.Issues[0].Path)

	rec = do(h, http.MethodPost, "/v1/validate?strict=true", "application/json", fixture(t, "schema_invalid_multiple_errors.json"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Issues, 1)
}

func TestValidate_YAMLAndRejections(t *testing.T) {
	h := newTestServer(t, Config{MaxBodyBytes: 64})

	rec := do(h, http.MethodPost, "/v1/validate", "application/yaml", "fields:\n  - name: id\nprimaryKey: id\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)

	rec = do(h, http.MethodPost, "/v1/validate", "application/json", `{"fields":[],"fields":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ts.CodeDuplicateKey)

	rec = do(h, http.MethodPost, "/v1/validate", "application/json", `{"fields":[{"name":"`+strings.Repeat("x", 100)+`"}]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(h, http.MethodGet, "/v1/validate", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidate_CustomValidator(t *testing.T) {
	v := ts.MustNew(ts.WithRules(rules.UniqueFieldNames()))
	h := newTestServer(t, Config{Validator: v})
	rec := do(h, http.MethodPost, "/v1/validate", "application/json", `{"fields":[{"name":"a"},{"name":"a"}]}`)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, ts.CodeUniqueness, resp.Issues[0].Code)
}

func TestRequestID_KeepsValidIncoming(t *testing.T) {
	h := newTestServer(t, Config{})
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestMetaSchemaEndpoint(t *testing.T) {
	h := newTestServer(t, Config{})
	rec := do(h, http.MethodGet, "/v1/metaschema", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/schema+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"primaryKey"`)

	rec = do(h, http.MethodGet, "/v1/metaschema?format=yaml", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "primaryKey:")
}

func TestOpenAPIAndHealth(t *testing.T) {
	h := newTestServer(t, Config{})
	rec := do(h, http.MethodGet, "/openapi.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	paths, _ := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/v1/validate")
	assert.Contains(t, paths, "/v1/metaschema")

	rec = do(h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	h := newTestServer(t, Config{})
	do(h, http.MethodPost, "/v1/validate", "application/json", `{"fields":[]}`)
	do(h, http.MethodPost, "/v1/validate", "application/json", `{"fields":[{"name":"id"}]}`)
	do(h, http.MethodPost, "/v1/validate", "application/json", `{`)

	rec := do(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `tableschema_validations_total{result="invalid"} 1`)
	assert.Contains(t, body, `tableschema_validations_total{result="valid"} 1`)
	assert.Contains(t, body, `tableschema_validations_total{result="rejected"} 1`)
	assert.Contains(t, body, `tableschema_issues_total{code="too_short"} 1`)
	assert.Contains(t, body, "tableschema_validation_duration_seconds_count 3")
}

func TestAccessLogAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := New(Config{Logger: logger})
	require.NoError(t, err)
	s.router.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	h := s.Handler()
	rec := do(h, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "path=/healthz")
	assert.Contains(t, buf.String(), "status=200")

	rec = do(h, http.MethodGet, "/panic", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	_, _ = io.Copy(io.Discard, rec.Body)
}
