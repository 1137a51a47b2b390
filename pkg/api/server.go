package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/dockwatch/dockwatch/pkg/metrics"
	"github.com/dockwatch/dockwatch/pkg/supervisor"
)

// Server exposes the scrape endpoint plus liveness and readiness checks.
// It only reads the metric sink and the engine's status snapshot; it never
// touches the registry.
type Server struct {
	engine    *supervisor.Engine
	srv       *http.Server
	listener  net.Listener
	startTime time.Time
}

// NewServer creates the HTTP server for the given sink and engine.
func NewServer(sink *metrics.Sink, engine *supervisor.Engine) *Server {
	s := &Server{
		engine:    engine,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", sink.Handler())
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ready", s.readyHandler)

	s.srv = &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Listen binds the server's address. Kept separate from Serve so a bind
// failure can fail startup synchronously.
func (s *Server) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener
	return nil
}

// Serve accepts connections until Shutdown. Listen must have been called.
func (s *Server) Serve() error {
	err := s.srv.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// HealthResponse is the body of the /health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status: "alive",
		Uptime: time.Since(s.startTime).String(),
	})
}

// ReadyResponse is the body of the /ready endpoint.
type ReadyResponse struct {
	Status string            `json:"status"`
	Engine supervisor.Status `json:"engine"`
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	status := s.engine.Status()

	resp := ReadyResponse{Status: "ready", Engine: status}
	code := http.StatusOK
	if status.LastPassAt.IsZero() {
		resp.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
