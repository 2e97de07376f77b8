// Package healthcheck metrics integration
// Provides Prometheus metrics for health check monitoring
package healthcheck

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HealthMetrics provides Prometheus metrics for health checks
type HealthMetrics struct {
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	healthStatus  *prometheus.GaugeVec
}

// NewHealthMetrics registers health check metrics on reg
func NewHealthMetrics(reg prometheus.Registerer, namespace string) *HealthMetrics {
	factory := promauto.With(reg)

	return &HealthMetrics{
		checksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "healthcheck",
				Name:      "checks_total",
				Help:      "Total number of health checks performed",
			},
			[]string{"check_name", "status"},
		),
		checkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "healthcheck",
				Name:      "check_duration_seconds",
				Help:      "Duration of health checks in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"check_name"},
		),
		healthStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "healthcheck",
				Name:      "status",
				Help:      "Current health status (0=unhealthy, 1=degraded, 2=healthy)",
			},
			[]string{"check_name"},
		),
	}
}

// RecordCheck records a health check execution
func (hm *HealthMetrics) RecordCheck(name string, check Check) {
	hm.checksTotal.WithLabelValues(name, string(check.Status)).Inc()
	hm.checkDuration.WithLabelValues(name).Observe(check.Duration.Seconds())
	hm.healthStatus.WithLabelValues(name).Set(statusToFloat(check.Status))
}

func statusToFloat(status Status) float64 {
	switch status {
	case StatusHealthy:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}

type meteredChecker struct {
	name    string
	metrics *HealthMetrics
	next    Checker
}

func (m *meteredChecker) Check(ctx context.Context) Check {
	check := m.next.Check(ctx)
	m.metrics.RecordCheck(m.name, check)
	return check
}

// WithMetrics wraps a checker to record metrics under name
func WithMetrics(metrics *HealthMetrics, name string, checker Checker) Checker {
	if metrics == nil {
		return checker
	}
	return &meteredChecker{name: name, metrics: metrics, next: checker}
}
