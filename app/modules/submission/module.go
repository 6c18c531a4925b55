// Package submission binds event submission intake and review behind the
// submission service.
package submission

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/clanworks/clanbot/app/eventbus"
	submissionservice "github.com/clanworks/clanbot/app/modules/submission/application"
	submissiondb "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories"
	submissionrouter "github.com/clanworks/clanbot/app/modules/submission/infrastructure/router"
	"github.com/clanworks/clanbot/internal/observability"
)

// Module represents the submission module.
type Module struct {
	SubmissionService submissionservice.Service
	router            *submissionrouter.SubmissionRouter
	obs               observability.Observability
	cancelFunc        context.CancelFunc
}

// NewSubmissionModule creates the submission module and registers its
// handlers.
func NewSubmissionModule(
	ctx context.Context,
	obs observability.Observability,
	repo submissiondb.Repository,
	bus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	service := submissionservice.NewSubmissionService(repo, obs.Logger, obs.Metrics, obs.Tracer)

	submissionRouter := submissionrouter.NewSubmissionRouter(obs.Logger, router, bus, obs.Tracer, obs.Metrics)
	if err := submissionRouter.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure submission router: %w", err)
	}

	return &Module{
		SubmissionService: service,
		router:            submissionRouter,
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
	m.obs.Logger.InfoContext(ctx, "Submission module stopped")
}

// Close stops the submission module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
