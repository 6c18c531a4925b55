// Package sync hosts the reconciliation engine and its periodic sweep
// trigger.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/clanworks/clanbot/app/eventbus"
	"github.com/clanworks/clanbot/app/events"
	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	syncrouter "github.com/clanworks/clanbot/app/modules/sync/infrastructure/router"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/keymutex"
	"github.com/clanworks/clanbot/internal/observability"
)

// Module represents the sync module.
type Module struct {
	SyncService   syncservice.Service
	router        *syncrouter.SyncRouter
	bus           eventbus.EventBus
	obs           observability.Observability
	sweepInterval time.Duration
	cancelFunc    context.CancelFunc
}

// NewSyncModule creates the sync module and registers its handlers.
func NewSyncModule(
	ctx context.Context,
	obs observability.Observability,
	members memberdb.Repository,
	ladder ladderdb.Repository,
	authority syncservice.GroupAuthority,
	locks *keymutex.KeyMutex,
	memberDelay time.Duration,
	sweepInterval time.Duration,
	bus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	service := syncservice.NewSyncService(members, ladder, authority, locks, memberDelay, obs.Logger, obs.Metrics, obs.Tracer)

	sr := syncrouter.NewSyncRouter(obs.Logger, router, bus, obs.Tracer, obs.Metrics)
	if err := sr.Configure(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to configure sync router: %w", err)
	}

	return &Module{
		SyncService:   service,
		router:        sr,
		bus:           bus,
		obs:           obs,
		sweepInterval: sweepInterval,
	}, nil
}

// Run drives the periodic sweep until the context is canceled. Each tick
// publishes a sweep request; the handler does the work so manual and
// scheduled sweeps share one path.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.obs.Logger.InfoContext(ctx, "Sync module stopped")
			return
		case <-ticker.C:
			if err := m.requestSweep(); err != nil {
				m.obs.Logger.ErrorContext(ctx, "Failed to request scheduled sweep", attr.Error(err))
			}
		}
	}
}

func (m *Module) requestSweep() error {
	payload, err := json.Marshal(events.RankSyncSweepRequestedPayloadV1{SweepID: uuid.NewString()})
	if err != nil {
		return fmt.Errorf("marshal sweep request: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return m.bus.Publish(events.RankSyncSweepRequestedV1, msg)
}

// Close stops the sync module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
