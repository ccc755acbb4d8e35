// Package server exposes the pipeline over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SportsFeed/internal/domain"
	"SportsFeed/internal/entity"
)

// Service is the part of the pipeline the API drives.
type Service interface {
	Stored(ctx context.Context) []domain.ContentItem
	Refresh(ctx context.Context) ([]domain.ContentItem, error)
	Scores(ctx context.Context) []domain.ScoreItem
	Analyze(ctx context.Context, score domain.ScoreItem) string
	Report(ctx context.Context) (domain.StoreStats, string)
}

// Resolver turns marker tokens into entity cards.
type Resolver interface {
	Resolve(text string) []entity.Segment
	Entities() []domain.Entity
}

// Server is the HTTP front of the pipeline.
type Server struct {
	service  Service
	resolver Resolver
	router   chi.Router
	logger   *slog.Logger
}

// New creates a server with all routes mounted.
func New(service Service, resolver Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service:  service,
		resolver: resolver,
		logger:   logger.With("component", "server"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/news", s.handleNews)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/scores", s.handleScores)
		r.Post("/scores/analyze", s.handleAnalyze)
		r.Get("/report", s.handleReport)
		r.Get("/entities", s.handleEntities)
		r.Get("/entities/resolve", s.handleResolve)
	})

	s.router = r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Stored(r.Context()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.Refresh(r.Context())
	if err != nil {
		s.logger.Warn("refresh persisted partially", "error", err)
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	scores := s.service.Scores(r.Context())
	if scores == nil {
		scores = []domain.ScoreItem{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var score domain.ScoreItem
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&score); err != nil {
		writeError(w, http.StatusBadRequest, "invalid score payload")
		return
	}
	if score.HomeTeam == "" {
		writeError(w, http.StatusBadRequest, "homeTeam is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysis": s.service.Analyze(r.Context(), score)})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	stats, text := s.service.Report(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats, "report": text})
}

func (s *Server) handleEntities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.resolver.Entities())
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	segments := s.resolver.Resolve(r.URL.Query().Get("text"))
	if segments == nil {
		segments = []entity.Segment{}
	}
	writeJSON(w, http.StatusOK, segments)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
