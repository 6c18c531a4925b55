// Package promotionrouter wires promotion event handlers onto the shared
// router.
package promotionrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/clanworks/clanbot/app/eventbus"
	"github.com/clanworks/clanbot/app/events"
	promotionservice "github.com/clanworks/clanbot/app/modules/promotion/application"
	promotionhandlers "github.com/clanworks/clanbot/app/modules/promotion/infrastructure/handlers"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/metrics"
)

// PromotionRouter handles routing for promotion module events.
type PromotionRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    metrics.Metrics
}

// NewPromotionRouter creates a new PromotionRouter.
func NewPromotionRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	m metrics.Metrics,
) *PromotionRouter {
	return &PromotionRouter{
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
	handlerName := "promotion." + topic

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

// Configure sets up the router with the promotion handlers.
func (r *PromotionRouter) Configure(ctx context.Context, service promotionservice.Service) error {
	handlers := promotionhandlers.NewPromotionHandlers(service)

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, events.MemberPointsAwardedV1, handlers.HandlePointsAwarded)
	registerHandler(deps, events.PromotionApprovedV1, handlers.HandleApproved)
	registerHandler(deps, events.PromotionDeniedV1, handlers.HandleDenied)
	registerHandler(deps, events.PromotionManualRequestedV1, handlers.HandleManualRequested)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("router context done before configuration finished: %w", err)
	}
	return nil
}
