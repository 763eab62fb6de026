// Package http exposes the harness over a small HTTP surface: health,
// the last run's report, a re-run trigger, and Prometheus metrics.
// The surface is fixed; there is no schema contract beyond the JSON shapes
// of pkg/check.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/preflightci/preflight/pkg/check"
)

// RunFunc executes one harness invocation.
type RunFunc func(ctx context.Context) (*check.Report, error)

// Server holds the last report and can trigger re-runs.
// Runs are serialized: the pipeline is strictly sequential by contract, so
// concurrent /run requests queue behind the mutex.
type Server struct {
	run    RunFunc
	logger *slog.Logger

	mu   sync.Mutex
	last *check.Report
}

// NewServer creates a Server around the given run function.
func NewServer(run RunFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{run: run, logger: logger}
}

// SetReport seeds the last report (used by serve mode after its initial run).
func (s *Server) SetReport(r *check.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = r
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/report", s.handleReport)
	r.Post("/run", s.handleRun)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	status := "ok"
	if last != nil && last.Failed() {
		status = "failing"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	if last == nil {
		http.Error(w, "no run recorded yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.run(r.Context())
	if err != nil {
		s.logger.Error("run failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.last = report
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
