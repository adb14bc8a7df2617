package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/kamal-hamza/ivc/internal/core/ports"
	"github.com/kamal-hamza/ivc/internal/core/services"
)

const shutdownTimeout = 5 * time.Second

// Options configures the web server
type Options struct {
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	ChartHeight    int
}

// Server serves the upload form, the chart page and the JSON API.
// It keeps no uploaded data between requests.
type Server struct {
	plot     *services.PlotService
	renderer ports.ChartRenderer
	logger   *slog.Logger
	metrics  *Metrics
	validate *validator.Validate
	opts     Options
}

// NewServer creates a new web server. The renderer must produce HTML.
func NewServer(plot *services.PlotService, renderer ports.ChartRenderer, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 600
	}

	return &Server{
		plot:     plot,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "web")),
		metrics:  NewMetrics(),
		validate: newValidator(),
		opts:     opts,
	}
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/", s.Index)
	r.Post("/plot", s.Plot)
	r.Post("/api/plot", s.APIPlot)
	r.Get("/healthz", s.Health)
	r.Handle("/metrics", s.metrics.Handler())

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
