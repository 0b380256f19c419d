package apiserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Server wraps an API behind a standard http.Server, mirroring
// cmd/tqserver's New/ServeForever split (server/server.go).
type Server struct {
	api API
	srv *http.Server
}

// New builds a Server listening on addr (host:port, or :port), mounting
// the API under PathPrefix.
func New(api API, addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle(PathPrefix+"/", http.StripPrefix(PathPrefix, api.Router()))

	return &Server{
		api: api,
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// ServeForever starts the server and blocks until it exits or an error
// occurs.
func (s *Server) ServeForever() error {
	log.Printf("INFO  Starting greinaserver on %s...", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("apiserver: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
