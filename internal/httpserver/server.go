package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Server wraps the http.Server with timeouts sized for short video uploads.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on the provided port. writeTimeout bounds the
// whole request including the upload body; zero selects a default of two minutes.
func New(port int, handler http.Handler, writeTimeout time.Duration) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Minute
	}
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       writeTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       time.Minute,
		},
	}
}

// Addr reports the configured listen address.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic. A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	if err := s.inner.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully terminates the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
