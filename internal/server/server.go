// internal/server/server.go

// Package server exposes the prediction, advisory, lead, and search services
// over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nursing-predictor/internal/advisor"
	"nursing-predictor/internal/common/config"
	"nursing-predictor/internal/common/database"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/common/observability"
	"nursing-predictor/internal/leads"
	"nursing-predictor/internal/predictor"
	"nursing-predictor/internal/search"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles the domain services the API serves.
type Services struct {
	Predictor *predictor.Service
	Advisor   *advisor.Service
	Leads     *leads.Service
	Search    *search.Service
}

type Server struct {
	config   config.ServerConfig
	router   chi.Router
	http     *http.Server
	services Services
	postgres *database.PostgresClient
	redis    *database.RedisClient
	obs      *observability.Observability
	logger   logger.Logger
}

func New(cfg config.ServerConfig, services Services, pg *database.PostgresClient, redis *database.RedisClient, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		config:   cfg,
		services: services,
		postgres: pg,
		redis:    redis,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.requestMetrics)

	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Post("/api/predict", s.handlePredict)
	r.Post("/api/advice", s.handleAdvice)
	r.Post("/api/leads", s.handleLeads)
	r.Get("/api/colleges/search", s.handleSearch)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/debug", chimiddleware.Profiler())

	s.router = r
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}

	return s
}

// Router exposes the handler tree, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.http.Addr,
	})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(s.config.ShutdownTimeout))
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// handleHealth checks the stores the core endpoints depend on. Elasticsearch
// is excluded, search degrading must not mark the predictor unhealthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.postgres != nil {
		if err := s.postgres.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
