// Package api provides the HTTP API for interview scheduling and introductions.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/hireflow/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	metrics observability.Metrics
	health  *observability.HealthRegistry

	interviews    *InterviewHandler
	introductions *IntroductionHandler
	team          *TeamHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        "0.0.0.0:8080",
		ReadTimeout: 15 * time.Second,
		// Confirm waits on the meeting link provider.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Handlers groups the resource handlers served by the API.
type Handlers struct {
	Interviews    *InterviewHandler
	Introductions *IntroductionHandler
	Team          *TeamHandler
	Health        *observability.HealthRegistry
	Metrics       observability.Metrics
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if handlers.Metrics == nil {
		handlers.Metrics = observability.NoopMetrics{}
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		metrics:       handlers.Metrics,
		health:        handlers.Health,
		interviews:    handlers.Interviews,
		introductions: handlers.Introductions,
		team:          handlers.Team,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	if h := s.interviews; h != nil {
		s.mux.HandleFunc("POST /api/v1/interviews", h.Create)
		s.mux.HandleFunc("GET /api/v1/interviews", h.List)
		s.mux.HandleFunc("GET /api/v1/interviews/{id}", h.Get)
		s.mux.HandleFunc("PATCH /api/v1/interviews/{id}", h.UpdateStatus)
		s.mux.HandleFunc("DELETE /api/v1/interviews/{id}", h.Cancel)
		s.mux.HandleFunc("POST /api/v1/interviews/{id}/availability", h.ProposeAvailability)
		s.mux.HandleFunc("GET /api/v1/interviews/{id}/availability/suggestions", h.SuggestAvailability)
		s.mux.HandleFunc("POST /api/v1/interviews/{id}/selection", h.SelectSlots)
		s.mux.HandleFunc("POST /api/v1/interviews/{id}/confirm", h.Confirm)
		s.mux.HandleFunc("POST /api/v1/interviews/{id}/reschedule", h.Reschedule)
		s.mux.HandleFunc("POST /api/v1/interviews/{id}/meeting-link/retry", h.RetryMeetingLink)
	}

	if h := s.introductions; h != nil {
		s.mux.HandleFunc("POST /api/v1/introductions", h.Request)
		s.mux.HandleFunc("GET /api/v1/introductions", h.List)
		s.mux.HandleFunc("GET /api/v1/introductions/{id}", h.Get)
		s.mux.HandleFunc("POST /api/v1/introductions/{id}/response", h.Respond)
		s.mux.HandleFunc("POST /api/v1/introductions/{id}/advance", h.Advance)
		s.mux.HandleFunc("GET /api/v1/candidates/{id}", h.ViewCandidate)
		s.mux.HandleFunc("PUT /api/v1/candidates/{id}", h.SaveProfile)
	}

	if h := s.team; h != nil {
		s.mux.HandleFunc("GET /api/v1/employers/{employerID}/team", h.List)
		s.mux.HandleFunc("POST /api/v1/employers/{employerID}/team", h.Add)
		s.mux.HandleFunc("DELETE /api/v1/employers/{employerID}/team/{userID}", h.Remove)
	}
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	return requestContext(instrument(s.mux, s.logger, s.metrics))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	overall := s.health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if overall.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, overall)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}
