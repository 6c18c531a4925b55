package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements Metrics against a prometheus registry.
type PrometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec

	reconcileOutcomes         *prometheus.CounterVec
	projectionRetries         *prometheus.CounterVec
	projectionPartialFailures *prometheus.CounterVec
}

// NewPrometheusMetrics registers the clanbot collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clanbot",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "service"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clanbot",
			Name:      "operation_successes_total",
			Help:      "Service operations completed without error.",
		}, []string{"operation", "service"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clanbot",
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an error.",
		}, []string{"operation", "service"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clanbot",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		reconcileOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clanbot",
			Name:      "reconcile_outcomes_total",
			Help:      "Reconciliation results by outcome.",
		}, []string{"outcome"}),
		projectionRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clanbot",
			Name:      "projection_retries_total",
			Help:      "Rate-limit retries per role projection step.",
		}, []string{"step"}),
		projectionPartialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clanbot",
			Name:      "projection_partial_failures_total",
			Help:      "Projection steps abandoned after the retry ceiling.",
		}, []string{"step"}),
	}

	reg.MustRegister(
		m.operationAttempts,
		m.operationSuccesses,
		m.operationFailures,
		m.operationDuration,
		m.reconcileOutcomes,
		m.projectionRetries,
		m.projectionPartialFailures,
	)

	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operationAttempts.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operationSuccesses.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operationFailures.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordReconcileOutcome(_ context.Context, outcome string) {
	m.reconcileOutcomes.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RecordProjectionRetry(_ context.Context, step string) {
	m.projectionRetries.WithLabelValues(step).Inc()
}

func (m *PrometheusMetrics) RecordProjectionPartialFailure(_ context.Context, step string) {
	m.projectionPartialFailures.WithLabelValues(step).Inc()
}

var _ Metrics = (*PrometheusMetrics)(nil)
