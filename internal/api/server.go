package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobly-api/jobly/internal/jobs"
	"github.com/jobly-api/jobly/pkg/engine"
	"github.com/jobly-api/jobly/pkg/engine/mutation"
)

// Store is the jobs record store behind the API
type Store interface {
	FindAll(ctx context.Context, f jobs.Filter) ([]jobs.Job, error)
	Get(ctx context.Context, id int) (*jobs.Job, error)
	Create(ctx context.Context, in jobs.NewJob) (*jobs.Job, error)
	Update(ctx context.Context, id int, fields *mutation.Fields) (*jobs.Job, error)
	Remove(ctx context.Context, id int) error
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the jobs HTTP API
type Server struct {
	store    Store
	pinger   Pinger
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
}

// NewServer creates a server over store. A nil registry gets a fresh one.
func NewServer(store Store, logger *slog.Logger, registry *prometheus.Registry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &Server{
		store:    store,
		logger:   logger,
		registry: registry,
		metrics:  NewMetrics(registry),
	}
}

// WithPinger makes /healthz check the database
func (s *Server) WithPinger(p Pinger) *Server {
	s.pinger = p
	return s
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the routed handler with request ids, logging and metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /jobs", s.handleCreate)
	mux.HandleFunc("GET /jobs", s.handleList)
	mux.HandleFunc("GET /jobs/{id}", s.handleGet)
	mux.HandleFunc("PATCH /jobs/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /jobs/{id}", s.handleDelete)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(observeMiddleware(s.logger, s.metrics, mux))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// engine.Engine satisfies Pinger
var _ Pinger = (*engine.Engine)(nil)
