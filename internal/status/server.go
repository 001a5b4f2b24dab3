// Package status exposes the progress of a running batch over HTTP.
// It is strictly read-only: the conversion loop stays single-threaded
// and this server only reads run snapshots and relays progress events.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Semirss/betebrana/internal/batch"
	"github.com/Semirss/betebrana/internal/config"
)

// Server is the optional status HTTP server.
type Server struct {
	cfg    config.StatusConfig
	run    *batch.Run
	router chi.Router
	hub    *Hub
	server *http.Server
}

// NewServer creates a status server for one batch run.
func NewServer(cfg config.StatusConfig, run *batch.Run) *Server {
	s := &Server{
		cfg: cfg,
		run: run,
		hub: NewHub(),
	}
	s.setupRouter()
	return s
}

// Hub returns the websocket hub, which doubles as a progress observer.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if len(s.cfg.APIKeys) > 0 {
			r.Use(AuthMiddleware(s.cfg.APIKeys))
		}
		r.Get("/api/v1/run", s.handleRun)
		r.Get("/api/v1/ws", s.handleWebSocket)
	})

	s.router = r
}

// Start runs the hub and the HTTP listener. It blocks until Shutdown.
func (s *Server) Start() error {
	go s.hub.Run()

	s.server = &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	slog.Info("status server listening", "addr", s.cfg.Listen)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.run.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
