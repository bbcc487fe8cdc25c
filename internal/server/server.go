// Package server exposes the VishMaker REST API.
//
// The API is a thin layer over the project store and the canvas pipeline:
//
//	GET    /healthz                   liveness probe
//	GET    /v1/projects               list projects
//	POST   /v1/projects               create a project
//	GET    /v1/projects/{id}          fetch one project with its tree
//	DELETE /v1/projects/{id}          delete a project
//	PUT    /v1/projects/{id}/flows    replace the project's flow tree
//	GET    /v1/projects/{id}/canvas   compute the renderer document
//
// Errors are returned as a JSON envelope carrying the structured error code,
// so API clients can branch on codes instead of parsing messages.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gauravm26/vishmaker/pkg/canvas"
	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/pipeline"
	"github.com/gauravm26/vishmaker/pkg/store"
)

// Server wires the store and pipeline runner into an HTTP handler.
type Server struct {
	store    store.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	geometry *canvas.Geometry
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGeometry sets the layout geometry used for canvas computation. Without
// it, canvases use the default geometry.
func WithGeometry(g canvas.Geometry) Option {
	return func(s *Server) {
		s.geometry = &g
	}
}

// New creates a Server. A nil runner gets a cache-less default.
func New(st store.Store, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		store:  st,
		runner: runner,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Delete("/", s.handleDeleteProject)
			r.Put("/flows", s.handlePutFlows)
			r.Get("/canvas", s.handleCanvas)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully within the given timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs method, path, and duration for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// =============================================================================
// Response Envelopes
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps a structured error onto an HTTP status and the envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.writeJSON(w, statusFor(code), errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

// statusFor maps error codes onto HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidProject, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidGeometry, errors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeProjectNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
