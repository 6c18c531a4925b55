// Package memberrouter wires member event handlers onto the shared router.
package memberrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/clanworks/clanbot/app/eventbus"
	"github.com/clanworks/clanbot/app/events"
	memberservice "github.com/clanworks/clanbot/app/modules/member/application"
	memberhandlers "github.com/clanworks/clanbot/app/modules/member/infrastructure/handlers"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/metrics"
)

// MemberRouter handles routing for member module events.
type MemberRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    metrics.Metrics
}

// NewMemberRouter creates a new MemberRouter.
func NewMemberRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	m metrics.Metrics,
) *MemberRouter {
	return &MemberRouter{
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
	handlerName := "member." + topic

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

// Configure sets up the router with the member handlers.
func (r *MemberRouter) Configure(ctx context.Context, service memberservice.Service) error {
	handlers := memberhandlers.NewMemberHandlers(service)

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, events.MemberPointsAwardRequestedV1, handlers.HandleAwardPoints)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("router context done before configuration finished: %w", err)
	}
	return nil
}
