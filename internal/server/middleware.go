package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/negroni"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

type ctxKeyRequestID struct{}

// requestID keeps a well-formed incoming ID and mints a new one otherwise.
func requestID(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	id := r.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	next(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID{}, id)))
}

// RequestIDFrom returns the request ID assigned by the server.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

func (s *Server) accessLog(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	ww := negroni.NewResponseWriter(w)
	next(ww, r)
	s.log.LogAttrs(r.Context(), slog.LevelInfo, "request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", ww.Status()),
		slog.Duration("elapsed", time.Since(start)),
		slog.String("request_id", RequestIDFrom(r.Context())),
	)
}
