// Package metrics defines the observability counters recorded by the
// application services, with a Prometheus implementation and a no-op for
// tests.
package metrics

import (
	"context"
	"time"
)

// Metrics is recorded by every application service through its telemetry
// wrapper, plus a few domain-specific signals.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)

	// RecordReconcileOutcome counts reconciliation results by outcome
	// (updated, in_sync, skipped, failed).
	RecordReconcileOutcome(ctx context.Context, outcome string)

	// RecordProjectionRetry counts rate-limit retries per projection step.
	RecordProjectionRetry(ctx context.Context, step string)

	// RecordProjectionPartialFailure counts projection steps abandoned after
	// the retry ceiling; these leave the Discord role stale.
	RecordProjectionPartialFailure(ctx context.Context, step string)
}

// NoOpMetrics discards everything. Used in tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordReconcileOutcome(context.Context, string)                        {}
func (NoOpMetrics) RecordProjectionRetry(context.Context, string)                         {}
func (NoOpMetrics) RecordProjectionPartialFailure(context.Context, string)                {}

var _ Metrics = NoOpMetrics{}
