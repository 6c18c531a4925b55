// Package projection binds guild role mirroring behind the projection
// service.
package projection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/clanworks/clanbot/app/eventbus"
	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	projectionservice "github.com/clanworks/clanbot/app/modules/projection/application"
	projectionrouter "github.com/clanworks/clanbot/app/modules/projection/infrastructure/router"
	"github.com/clanworks/clanbot/internal/observability"
)

// Config bounds the projection retry loop and paces role mutations.
type Config struct {
	RolesPerSecond float64
	MaxRetries     int
	BaseDelay      time.Duration
}

// Module represents the projection module.
type Module struct {
	ProjectionService projectionservice.Service
	router            *projectionrouter.ProjectionRouter
	obs               observability.Observability
	cancelFunc        context.CancelFunc
}

// NewProjectionModule creates the projection module and registers its
// handlers.
func NewProjectionModule(
	ctx context.Context,
	obs observability.Observability,
	ladder ladderdb.Repository,
	roles projectionservice.RoleChat,
	cfg Config,
	bus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	service := projectionservice.NewProjectionService(
		ladder, roles, cfg.RolesPerSecond, cfg.MaxRetries, cfg.BaseDelay,
		obs.Logger, obs.Metrics, obs.Tracer,
	)

	projectionRouter := projectionrouter.NewProjectionRouter(obs.Logger, router, bus, obs.Tracer, obs.Metrics)
	if err := projectionRouter.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure projection router: %w", err)
	}

	return &Module{
		ProjectionService: service,
		router:            projectionRouter,
		obs:               obs,
	}, nil
}

// Run keeps the module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.obs.Logger.InfoContext(ctx, "Projection module stopped")
}

// Close stops the projection module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
