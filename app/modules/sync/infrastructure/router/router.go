// Package syncrouter wires reconciliation event handlers onto the shared
// router.
package syncrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/clanworks/clanbot/app/eventbus"
	"github.com/clanworks/clanbot/app/events"
	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	synchandlers "github.com/clanworks/clanbot/app/modules/sync/infrastructure/handlers"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/metrics"
)

// SyncRouter handles routing for sync module events.
type SyncRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    metrics.Metrics
}

// NewSyncRouter creates a new SyncRouter.
func NewSyncRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	m metrics.Metrics,
) *SyncRouter {
	return &SyncRouter{
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
	handlerName := "sync." + topic

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

// Configure sets up the router with the sync handlers.
func (r *SyncRouter) Configure(ctx context.Context, service syncservice.Service) error {
	handlers := synchandlers.NewSyncHandlers(service)

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, events.RankSyncSweepRequestedV1, handlers.HandleSweepRequested)
	registerHandler(deps, events.RankSyncMemberRequestedV1, handlers.HandleMemberSyncRequested)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("router context done before configuration finished: %w", err)
	}
	return nil
}
