// Package server exposes table schema validation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/negroni"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/middleware"
)

// Config configures a Server. Zero values pick defaults.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	Validator    *ts.Validator
	Logger       *slog.Logger
	// Registry receives the server metrics; a private registry is created
	// when nil.
	Registry *prometheus.Registry
}

// Server is the HTTP validation service.
type Server struct {
	addr    string
	maxBody int64
	v       *ts.Validator
	log     *slog.Logger
	router  *mux.Router
	reg     *prometheus.Registry
	metrics *metrics
}

// New builds a Server and registers its routes and metrics.
func New(cfg Config) (*Server, error) {
	s := &Server{
		addr:    cfg.Addr,
		maxBody: cfg.MaxBodyBytes,
		v:       cfg.Validator,
		log:     cfg.Logger,
		router:  mux.NewRouter(),
		reg:     cfg.Registry,
	}
	if s.addr == "" {
		s.addr = ":8080"
	}
	if s.maxBody <= 0 {
		s.maxBody = middleware.DefaultMaxBodyBytes
	}
	if s.v == nil {
		s.v = ts.Default()
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.reg == nil {
		s.reg = prometheus.NewRegistry()
	}
	m, err := newMetrics(s.reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	s.metrics = m
	s.setupRoutes()
	return s, nil
}

// Handler returns the full middleware stack: panic recovery, request IDs,
// access logging, then the router.
func (s *Server) Handler() http.Handler {
	rec := negroni.NewRecovery()
	rec.PrintStack = false
	rec.Logger = slog.NewLogLogger(s.log.Handler(), slog.LevelError)
	n := negroni.New(rec)
	n.UseFunc(requestID)
	n.UseFunc(s.accessLog)
	n.UseHandler(s.router)
	return n
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
