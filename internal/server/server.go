// Package server exposes the Shopify tool set over a JSON-RPC style protocol,
// both as an AWS Lambda handler and as a plain HTTP server.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxRequestBodySize caps inbound bodies read by the HTTP adapter (1MB).
const maxRequestBodySize = 1 << 20

// Server contains the configured router and dispatcher for local HTTP serving.
type Server struct {
	router     *chi.Mux
	dispatcher *Dispatcher
}

// New constructs a Server with middleware and routes configured.
func New(d *Dispatcher) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		dispatcher: d,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)

	// Every verb reaches the dispatcher so 401 is decided before 405.
	s.router.HandleFunc("/", s.handleRPC)
	s.router.HandleFunc("/mcp", s.handleRPC)

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		// Unreadable bodies get the same leniency as unparsable ones.
		body = nil
	}
	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	resp := s.dispatcher.Handle(r.Context(), Request{
		Method:    r.Method,
		Headers:   headers,
		Body:      body,
		RequestID: middleware.GetReqID(r.Context()),
	})
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
