// Package server hosts the dashboard over HTTP. The dashboard page reloads
// the dataset document on every request, so edits to the document show up
// on the next refresh without a restart; health, readiness and metrics
// endpoints ride on the same router.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
	"github.com/Sumatoshi-tech/sprintfang/internal/plotpage"
	"github.com/Sumatoshi-tech/sprintfang/internal/view"
)

const (
	readHeaderTimeout = 15 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options configures the listen address and the dashboard's appearance.
type Options struct {
	Listen string
	Title  string
	Theme  plotpage.Theme
}

// Deps carries the observability infrastructure the server mounts. Nil
// fields degrade gracefully: metric calls become no-ops, the tracer falls
// back to a no-op provider, and the metrics endpoint is left unmounted.
type Deps struct {
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Requests  *observability.REDMetrics
	Dashboard *observability.DashboardMetrics
	Bridge    *observability.PrometheusBridge
}

// Server hosts the dashboard and its operational endpoints.
type Server struct {
	*http.Server

	opts       Options
	source     *dataset.Source
	dispatcher *view.Dispatcher
	logger     *slog.Logger
	requests   *observability.REDMetrics
	dashboard  *observability.DashboardMetrics
}

// New builds the server around a dataset source and a view dispatcher.
func New(opts Options, source *dataset.Source, dispatcher *view.Dispatcher, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("sprintfang")
	}

	srv := &Server{
		opts:       opts,
		source:     source,
		dispatcher: dispatcher,
		logger:     logger,
		requests:   deps.Requests,
		dashboard:  deps.Dashboard,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(func(next http.Handler) http.Handler {
		return observability.HTTPMiddleware(tracer, logger, next)
	})

	router.Get("/", srv.handleDashboard)
	router.Method(http.MethodGet, "/healthz", observability.HealthHandler())
	router.Method(http.MethodGet, "/readyz", observability.ReadyHandler(srv.readyCheck))

	if deps.Bridge != nil {
		router.Method(http.MethodGet, "/metrics", deps.Bridge.Handler())
	}

	srv.Server = &http.Server{
		Addr:              opts.Listen,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return srv
}

// Run serves until ctx is cancelled, then drains open connections within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", "addr", s.Addr)

		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http server stopped")

	return nil
}

// readyCheck reports whether the dataset document is currently loadable.
func (s *Server) readyCheck(ctx context.Context) error {
	_, err := s.source.Load(ctx)

	return err
}
