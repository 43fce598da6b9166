// Package status exposes the engine's health over HTTP for the UI status
// indicator and for scraping.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suzukaplayer/resilience/internal/core/domain"
	"github.com/suzukaplayer/resilience/internal/engine"
)

// Server provides HTTP endpoints for resilience status.
type Server struct {
	coord  *engine.Coordinator
	server *http.Server
}

// NewServer creates a new status server.
func NewServer(coord *engine.Coordinator, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		coord: coord,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/status/detailed", s.handleDetailed)
	mux.HandleFunc("/reset", s.handleReset)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	view := s.coord.Status()

	w.Header().Set("Content-Type", "application/json")
	if view.Level == domain.StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(view)
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.coord.Summarize())
}

// handleReset is the manual breaker override, wired to the UI's "resume"
// button.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.coord.Reset()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.coord.Status())
}
