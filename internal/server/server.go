// Package server exposes the floorgen pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build info
//	GET  /v1/rooms    the room catalog
//	POST /v1/graph    build a constraint graph
//	POST /v1/layout   generate a layout
//	GET  /v1/stats    pipeline counters, when installed
//
// Errors are JSON objects {"error": {"code": ..., "message": ...}} with the
// status given by errors.HTTPStatus.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/observability"
	"github.com/matzehuels/floorgen/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger

	// totalTimeout bounds each layout request.
	totalTimeout time.Duration
	counters     *observability.Counters
}

// Option configures a Server.
type Option func(*Server)

// WithTotalTimeout bounds the refinement loop of each layout request.
func WithTotalTimeout(d time.Duration) Option {
	return func(s *Server) { s.totalTimeout = d }
}

// WithCounters serves c on /v1/stats. The caller installs c as hooks.
func WithCounters(c *observability.Counters) Option {
	return func(s *Server) { s.counters = c }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/rooms", s.handleRooms)
		r.Post("/graph", s.handleGraph)
		r.Post("/layout", s.handleLayout)
		if s.counters != nil {
			r.Get("/stats", s.handleStats)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error struct {
		Code    ferrors.Code `json:"code"`
		Message string       `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := ferrors.Classify(err)
	status := ferrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = ferrors.UserMessage(err)
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}
