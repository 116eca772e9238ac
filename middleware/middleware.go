// Package middleware holds the HTTP plumbing shared by the net/http, echo
// and gin adapters: request body decoding, context storage and the error
// payload shape.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/goccy/go-json"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/source"
)

// DefaultMaxBodyBytes bounds request bodies read by DecodeBody.
const DefaultMaxBodyBytes int64 = 1 << 20

// ErrBodyTooLarge is returned when a body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ctxKeyDocument is a typed context key for the decoded table schema.
type ctxKeyDocument struct{}

// ContextWithDocument attaches a validated document to the context.
func ContextWithDocument(ctx context.Context, doc any) context.Context {
	return context.WithValue(ctx, ctxKeyDocument{}, docBox{doc})
}

// DocumentFromContext retrieves a document stored by ContextWithDocument.
func DocumentFromContext(ctx context.Context) (any, bool) {
	b, ok := ctx.Value(ctxKeyDocument{}).(docBox)
	return b.v, ok
}

// docBox lets a nil document be distinguished from a missing one.
type docBox struct{ v any }

// FormatFromContentType maps a Content-Type header to an input format.
// Unknown or missing types sniff the body.
func FormatFromContentType(contentType string) source.Format {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return source.FormatAuto
	}
	switch mt {
	case "application/json", "application/schema+json":
		return source.FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return source.FormatYAML
	}
	return source.FormatAuto
}

// DecodeBody reads at most limit bytes (DefaultMaxBodyBytes when <= 0) and
// decodes one document. Parse failures and duplicate keys come back as
// tableschema.Issues.
func DecodeBody(r io.Reader, contentType string, limit int64) (any, []byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, nil, ErrBodyTooLarge
	}
	docs, err := source.Decode(data, FormatFromContentType(contentType))
	if err != nil {
		return nil, data, err
	}
	if len(docs) == 0 {
		return nil, data, ts.Issues{ts.IssueAt(ts.Root(), ts.CodeParseError, "", nil)}
	}
	return docs[0].Value, data, nil
}

// CheckRequest decodes the request body and validates it with v (the
// default Validator when nil). The body is restored so handlers can read it
// again. A non-nil error means the body could not be decoded; Issues reports
// validation defects.
func CheckRequest(v *ts.Validator, r *http.Request, limit int64) (any, ts.Issues, error) {
	if v == nil {
		v = ts.Default()
	}
	doc, raw, err := DecodeBody(r.Body, r.Header.Get("Content-Type"), limit)
	if raw != nil {
		r.Body = io.NopCloser(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, nil, err
	}
	return doc, v.Errors(doc), nil
}

// StatusFor maps a CheckRequest error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []ts.Issue) map[string]any {
	if issues == nil {
		issues = []ts.Issue{}
	}
	return map[string]any{"valid": false, "issues": issues}
}

// ErrorBody renders the payload for any CheckRequest error.
func ErrorBody(err error) map[string]any {
	if iss, ok := ts.AsIssues(err); ok {
		return ErrorPayload(iss)
	}
	return map[string]any{"valid": false, "error": err.Error()}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Require rejects requests whose body is not a valid table schema with 400
// and an Issues payload (422 when the body decodes but fails validation).
// On success the document is stored in the request context.
func Require(v *ts.Validator, limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			doc, iss, err := CheckRequest(v, r, limit)
			if err != nil {
				_ = WriteJSON(w, StatusFor(err), ErrorBody(err))
				return
			}
			if len(iss) > 0 {
				_ = WriteJSON(w, http.StatusUnprocessableEntity, ErrorPayload(iss))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDocument(r.Context(), doc)))
		})
	}
}
