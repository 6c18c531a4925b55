// Package member binds identity, points, and standing behind the member
// service.
package member

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/clanworks/clanbot/app/eventbus"
	memberservice "github.com/clanworks/clanbot/app/modules/member/application"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	memberrouter "github.com/clanworks/clanbot/app/modules/member/infrastructure/router"
	"github.com/clanworks/clanbot/internal/observability"
)

// Module represents the member module.
type Module struct {
	MemberService memberservice.Service
	router        *memberrouter.MemberRouter
	obs           observability.Observability
	cancelFunc    context.CancelFunc
}

// NewMemberModule creates the member module and registers its handlers.
func NewMemberModule(
	ctx context.Context,
	obs observability.Observability,
	repo memberdb.Repository,
	ladder memberservice.LadderReader,
	resolver memberservice.IdentityResolver,
	bus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	service := memberservice.NewMemberService(repo, ladder, resolver, obs.Logger, obs.Metrics, obs.Tracer)

	memberRouter := memberrouter.NewMemberRouter(obs.Logger, router, bus, obs.Tracer, obs.Metrics)
	if err := memberRouter.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure member router: %w", err)
	}

	return &Module{
		MemberService: service,
		router:        memberRouter,
		obs:           obs,
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
	m.obs.Logger.InfoContext(ctx, "Member module stopped")
}

// Close stops the member module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
