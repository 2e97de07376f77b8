package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

// Namespace prefixes every metric the service exports
const Namespace = "nutrimatch"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Matching metrics
	tierCallsTotal       *prometheus.CounterVec
	tierResults          *prometheus.HistogramVec
	fallbacksTotal       *prometheus.CounterVec
	filterFallbacksTotal prometheus.Counter

	// Provider metrics
	providerRequestsTotal   *prometheus.CounterVec
	providerRequestDuration *prometheus.HistogramVec
	cacheLookupsTotal       *prometheus.CounterVec
}

var _ outbound.MatchMetrics = (*MetricsCollector)(nil)

// NewMetricsCollector creates a new metrics collector on its own registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger,
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path", "status_code"},
		),

		tierCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "search_tier_calls_total",
				Help:      "Provider searches issued per fallback tier",
			},
			[]string{"tier"},
		),
		tierResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "search_tier_results",
				Help:      "Number of results returned per fallback tier",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
			[]string{"tier"},
		),
		fallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "search_fallbacks_total",
				Help:      "Nutrition-aware searches by final fallback type",
			},
			[]string{"type"},
		),
		filterFallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "filter_fallbacks_total",
				Help:      "Safety filters that eliminated every candidate and returned the unfiltered set",
			},
		),

		providerRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "provider_requests_total",
				Help:      "Recipe provider requests by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		providerRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Recipe provider request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"operation"},
		),
		cacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_lookups_total",
				Help:      "Search cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// HTTPMiddleware records request count, latency and response size per route
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		statusCode := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(r.Method, path, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path, statusCode).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, path, statusCode).Observe(float64(ww.BytesWritten()))
	})
}

// routePattern keeps label cardinality bounded by using the matched route
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func (m *MetricsCollector) RecordTier(tier string, results int) {
	m.tierCallsTotal.WithLabelValues(tier).Inc()
	m.tierResults.WithLabelValues(tier).Observe(float64(results))
}

func (m *MetricsCollector) RecordFallback(fallbackType string) {
	m.fallbacksTotal.WithLabelValues(fallbackType).Inc()
}

func (m *MetricsCollector) RecordFilterFallback() {
	m.filterFallbacksTotal.Inc()
}

func (m *MetricsCollector) RecordProviderCall(operation, status string, duration time.Duration) {
	m.providerRequestsTotal.WithLabelValues(operation, status).Inc()
	m.providerRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordCache(result string) {
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry for additional collectors
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}
