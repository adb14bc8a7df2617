package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/services"
)

// Metrics holds the server's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	plots       prometheus.Counter
	files       *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	seriesDrawn prometheus.Histogram
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ivc",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ivc",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		plots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ivc",
			Name:      "plots_rendered_total",
			Help:      "Charts rendered by the pipeline.",
		}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ivc",
			Name:      "files_loaded_total",
			Help:      "Uploaded files by load outcome.",
		}, []string{"outcome"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ivc",
			Name:      "diagnostics_total",
			Help:      "Diagnostics produced by the pipeline, by level.",
		}, []string{"level"}),
		seriesDrawn: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ivc",
			Name:      "chart_series",
			Help:      "Number of series per rendered chart.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}),
	}

	m.registry.MustRegister(
		m.requests, m.duration, m.plots, m.files, m.diagnostics, m.seriesDrawn,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObservePlot records the outcome of one pipeline run
func (m *Metrics) ObservePlot(submitted int, resp *services.PlotResponse) {
	if resp == nil {
		return
	}

	m.files.WithLabelValues("parsed").Add(float64(len(resp.Files)))
	if failed := submitted - len(resp.Files); failed > 0 {
		m.files.WithLabelValues("failed").Add(float64(failed))
	}

	for _, d := range resp.Diagnostics {
		m.diagnostics.WithLabelValues(string(d.Level)).Inc()
	}

	if resp.Chart != nil {
		m.plots.Inc()
		m.seriesDrawn.Observe(float64(len(resp.Chart.Series)))
	}
}

// ObserveLoadFailure records a batch that failed to load as a whole
func (m *Metrics) ObserveLoadFailure(submitted int) {
	m.files.WithLabelValues("failed").Add(float64(submitted))
	m.diagnostics.WithLabelValues(string(domain.LevelError)).Inc()
}
