// Package promotion binds eligibility detection and the human-approval
// resolution paths behind the promotion service.
package promotion

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/clanworks/clanbot/app/eventbus"
	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	promotionservice "github.com/clanworks/clanbot/app/modules/promotion/application"
	promotionrouter "github.com/clanworks/clanbot/app/modules/promotion/infrastructure/router"
	"github.com/clanworks/clanbot/internal/keymutex"
	"github.com/clanworks/clanbot/internal/observability"
)

// Module represents the promotion module.
type Module struct {
	PromotionService promotionservice.Service
	router           *promotionrouter.PromotionRouter
	obs              observability.Observability
	cancelFunc       context.CancelFunc
}

// NewPromotionModule creates the promotion module and registers its handlers.
func NewPromotionModule(
	ctx context.Context,
	obs observability.Observability,
	members memberdb.Repository,
	ladder ladderdb.Repository,
	authority promotionservice.RankSetter,
	reconciler promotionservice.Reconciler,
	locks *keymutex.KeyMutex,
	bus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	service := promotionservice.NewPromotionService(members, ladder, authority, reconciler, locks, obs.Logger, obs.Metrics, obs.Tracer)

	promotionRouter := promotionrouter.NewPromotionRouter(obs.Logger, router, bus, obs.Tracer, obs.Metrics)
	if err := promotionRouter.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure promotion router: %w", err)
	}

	return &Module{
		PromotionService: service,
		router:           promotionRouter,
		obs:              obs,
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
	m.obs.Logger.InfoContext(ctx, "Promotion module stopped")
}

// Close stops the promotion module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
