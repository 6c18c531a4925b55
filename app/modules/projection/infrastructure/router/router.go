// Package projectionrouter wires projection event handlers onto the shared
// router.
package projectionrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/clanworks/clanbot/app/eventbus"
	"github.com/clanworks/clanbot/app/events"
	projectionservice "github.com/clanworks/clanbot/app/modules/projection/application"
	projectionhandlers "github.com/clanworks/clanbot/app/modules/projection/infrastructure/handlers"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/metrics"
)

// ProjectionRouter handles routing for projection module events.
type ProjectionRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    metrics.Metrics
}

// NewProjectionRouter creates a new ProjectionRouter.
func NewProjectionRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	m metrics.Metrics,
) *ProjectionRouter {
	return &ProjectionRouter{
		logger:     logger,
		Router:     router,
		subscriber: bus,
		publisher:  bus,
		tracer:     tracer,
		metrics:    m,
	}
}

// Configure sets up the router with the projection handlers.
func (r *ProjectionRouter) Configure(ctx context.Context, service projectionservice.Service) error {
	handlers := projectionhandlers.NewProjectionHandlers(service)

	handlerName := "projection." + events.RankUpdatedV1
	r.Router.AddHandler(
		handlerName,
		events.RankUpdatedV1,
		r.subscriber,
		"", // publish topic comes from each result message's metadata
		r.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			r.logger,
			r.tracer,
			r.metrics,
			handlers.HandleRankUpdated,
		),
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("router context done before configuration finished: %w", err)
	}
	return nil
}
