// Package httpapi exposes the semdesk HTTP API: ingest, search and a
// liveness root endpoint, served on a loopback address.
package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/semdesk/semdesk/internal/core/ports/driving"
	"github.com/semdesk/semdesk/internal/logger"
)

// Server wraps the HTTP listener and routes requests to the coordinator.
type Server struct {
	addr     string
	ingester driving.Ingester
	searcher driving.Searcher

	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates an HTTP server bound to addr once Start is called.
func NewServer(addr string, ingester driving.Ingester, searcher driving.Searcher) *Server {
	s := &Server{
		addr:     addr,
		ingester: ingester,
		searcher: searcher,
		errChan:  make(chan error, 1),
	}

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	return s
}

// Handler returns the routed handler with CORS and request logging
// applied. Exposed separately so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /search", s.handleSearch)

	return withCORS(withRequestLog(mux))
}

// Start begins listening on the configured address. Serve errors after a
// successful bind are reported through Err.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	logger.Info("http: listening on %s", listener.Addr())
	return nil
}

// Err reports a serve failure after a successful Start.
func (s *Server) Err() <-chan error {
	return s.errChan
}

// Addr returns the bound address. Only valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
