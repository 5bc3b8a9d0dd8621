// Package server exposes a cleaned order database over read-only HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/orders-analytics/internal/common"
	"github.com/joseph-ayodele/orders-analytics/internal/entity"
	"github.com/joseph-ayodele/orders-analytics/internal/repository"
)

// Server serves revenue extracts and the QA summary.
type Server struct {
	store   repository.ExtractStore
	router  *chi.Mux
	logger  *slog.Logger
	timeout time.Duration
}

func NewServer(store repository.ExtractStore, logger *slog.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &Server{
		store:   store,
		router:  chi.NewRouter(),
		logger:  logger,
		timeout: timeout,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.timeout))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/revenue/{field}", s.handleRevenue)
	s.router.Get("/qa", s.handleQA)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type revenueResponse struct {
	Field  string                `json:"field"`
	Groups []entity.RevenueGroup `json:"groups"`
}

type qaResponse struct {
	Metrics []entity.Metric `json:"metrics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health.ping.failed", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	groups, err := s.store.RevenueBy(r.Context(), field)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if groups == nil {
		groups = []entity.RevenueGroup{}
	}
	s.writeJSON(w, http.StatusOK, revenueResponse{Field: field, Groups: groups})
}

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.store.QASummary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if metrics == nil {
		metrics = []entity.Metric{}
	}
	s.writeJSON(w, http.StatusOK, qaResponse{Metrics: metrics})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := common.ErrInternal.Error()
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	}
	s.logger.Error("extracts.request.failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"status", status,
		"error", err,
	)
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
