package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/metaschema"
	"github.com/reoring/tableschema/middleware"
)

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/v1/validate", s.handleValidate()).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/metaschema", s.handleMetaSchema()).Methods(http.MethodGet)
	s.router.HandleFunc("/openapi.json", s.handleOpenAPI()).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
}

// ValidateResponse is the body of POST /v1/validate.
type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	Issues    ts.Issues `json:"issues"`
	RequestID string    `json:"requestId,omitempty"`
}

func (s *Server) handleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() { s.metrics.duration.Observe(time.Since(start).Seconds()) }()

		doc, iss, err := middleware.CheckRequest(s.v, r, s.maxBody)
		if err != nil {
			s.metrics.validations.WithLabelValues("rejected").Inc()
			body := middleware.ErrorBody(err)
			body["requestId"] = RequestIDFrom(r.Context())
			_ = middleware.WriteJSON(w, middleware.StatusFor(err), body)
			return
		}
		strict, _ := strconv.ParseBool(r.URL.Query().Get("strict"))
		if strict && len(iss) > 1 {
			iss = iss[:1]
		}
		for _, is := range iss {
			s.metrics.issues.WithLabelValues(is.Code).Inc()
		}
		resp := ValidateResponse{Valid: len(iss) == 0, Issues: iss, RequestID: RequestIDFrom(r.Context())}
		if resp.Issues == nil {
			resp.Issues = ts.Issues{}
		}
		if resp.Valid {
			s.metrics.validations.WithLabelValues("valid").Inc()
		} else {
			s.metrics.validations.WithLabelValues("invalid").Inc()
			s.log.Debug("invalid document", "issues", len(iss), "request_id", resp.RequestID, "document_kind", kindOf(doc))
		}
		_ = middleware.WriteJSON(w, http.StatusOK, resp)
	}
}

// handleMetaSchema serves the bundled meta-schema as JSON, or YAML with
// ?format=yaml.
func (s *Server) handleMetaSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := metaschema.Bytes()
		w.Header().Set("X-Metaschema-Version", metaschema.Version)
		if r.URL.Query().Get("format") == "yaml" {
			out, err := yaml.JSONToYAML(data)
			if err != nil {
				_ = middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
				return
			}
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(out)
			return
		}
		w.Header().Set("Content-Type", "application/schema+json")
		_, _ = w.Write(data)
	}
}

func (s *Server) handleOpenAPI() http.HandlerFunc {
	doc := openAPIDoc()
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = middleware.WriteJSON(w, http.StatusOK, doc)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func kindOf(doc any) string {
	switch doc.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return "scalar"
	}
}
