// Package submissionrouter wires submission event handlers onto the shared
// router.
package submissionrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/clanworks/clanbot/app/eventbus"
	"github.com/clanworks/clanbot/app/events"
	submissionservice "github.com/clanworks/clanbot/app/modules/submission/application"
	submissionhandlers "github.com/clanworks/clanbot/app/modules/submission/infrastructure/handlers"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/metrics"
)

// SubmissionRouter handles routing for submission module events.
type SubmissionRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    metrics.Metrics
}

// NewSubmissionRouter creates a new SubmissionRouter.
func NewSubmissionRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	m metrics.Metrics,
) *SubmissionRouter {
	return &SubmissionRouter{
		logger:     logger,
		Router:     router,
		subscriber: bus,
		publisher:  bus,
		tracer:     tracer,
		metrics:    m,
	}
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    metrics.Metrics
}

// registerHandler registers a pure transformation-pattern handler with typed
// payload.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "submission." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"", // publish topic comes from each result message's metadata
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.metrics,
			handler,
		),
	)
}

// Configure sets up the router with the submission handlers.
func (r *SubmissionRouter) Configure(ctx context.Context, service submissionservice.Service) error {
	handlers := submissionhandlers.NewSubmissionHandlers(service)

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, events.SubmissionCreateRequestedV1, handlers.HandleCreateRequested)
	registerHandler(deps, events.SubmissionApproveRequestedV1, handlers.HandleApproveRequested)
	registerHandler(deps, events.SubmissionDenyRequestedV1, handlers.HandleDenyRequested)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("router context done before configuration finished: %w", err)
	}
	return nil
}
