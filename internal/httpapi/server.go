// Package httpapi serves shortlinks over HTTP: a /go/{names} omnibox
// endpoint and a small JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikbrunner/sl/internal/logger"
)

// NewRouter builds the chi router with middleware and routes.
func NewRouter(svc Service, log logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(log))

	h := newHandler(svc, log)

	r.Get("/healthz", handleHealth)
	r.Get("/go/{names}", h.goTo)

	r.Route("/api/shortlinks", func(r chi.Router) {
		r.Get("/", h.list)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.put)
			r.Delete("/", h.remove)
		})
	})

	return r
}

// Server wraps the HTTP server.
type Server struct {
	http *http.Server
	log  logger.Logger
}

func NewServer(addr string, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		log: log,
	}
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	// http.ErrServerClosed is expected on graceful shutdown.
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
