// Package observability bundles the logger, metrics, and tracer handed to
// every module, plus the operational HTTP surface.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/clanworks/clanbot/internal/metrics"
)

// Observability carries the shared telemetry dependencies.
type Observability struct {
	Logger   *slog.Logger
	Metrics  metrics.Metrics
	Tracer   trace.Tracer
	Registry *prometheus.Registry
}

// Options configures NewObservability.
type Options struct {
	Environment string
	// ExtraHandler, when non-nil, receives every record the base handler
	// accepts. Used for the Discord log forwarder.
	ExtraHandler slog.Handler
}

// NewObservability builds the telemetry stack: JSON logs to stdout, an
// optional secondary handler, Prometheus metrics, and the process tracer.
func NewObservability(opts Options) Observability {
	level := slog.LevelInfo
	if opts.Environment == "development" {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if opts.ExtraHandler != nil {
		handler = newTeeHandler(handler, opts.ExtraHandler)
	}
	logger := slog.New(handler)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:   logger,
		Metrics:  metrics.NewPrometheusMetrics(registry),
		Tracer:   otel.Tracer("clanbot"),
		Registry: registry,
	}
}

// teeHandler fans records out to two handlers. Enabled when either is.
type teeHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func newTeeHandler(primary, secondary slog.Handler) *teeHandler {
	return &teeHandler{primary: primary, secondary: secondary}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.secondary.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	if h.primary.Enabled(ctx, record.Level) {
		firstErr = h.primary.Handle(ctx, record.Clone())
	}
	if h.secondary.Enabled(ctx, record.Level) {
		if err := h.secondary.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{
		primary:   h.primary.WithAttrs(attrs),
		secondary: h.secondary.WithAttrs(attrs),
	}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{
		primary:   h.primary.WithGroup(name),
		secondary: h.secondary.WithGroup(name),
	}
}
