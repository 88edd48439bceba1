// Package httpapi exposes the project store over a small JSON API with
// PNG previews, bundle download and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/BillMorio/LinkedIn-Carousel/internal/config"
	"github.com/BillMorio/LinkedIn-Carousel/internal/export"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
)

// maxBodyBytes bounds request bodies; imported projects may carry inline
// images.
const maxBodyBytes = 32 << 20

// Server serves one store.
type Server struct {
	config     config.ServerConfig
	store      *store.Store
	exporter   *export.Exporter
	metrics    *Metrics
	log        *logger.Logger
	router     chi.Router
	httpServer *http.Server
}

// NewServer wires the router and middleware. A nil log discards output.
func NewServer(cfg config.ServerConfig, s *store.Store, exp *export.Exporter, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	srv := &Server{
		config:   cfg,
		store:    s,
		exporter: exp,
		metrics:  NewMetrics(),
		log:      log.WithComponent("http"),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(srv.log))
	r.Use(srv.metrics.Middleware)
	srv.routes(r)
	srv.router = r

	srv.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return srv
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.log.WithFields(map[string]any{"addr": s.config.Addr}).Info("starting HTTP server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// ListenAndServe starts the server and shuts it down when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
