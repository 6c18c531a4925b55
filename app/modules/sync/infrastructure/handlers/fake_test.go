package synchandlers

import (
	"context"

	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// fakeSyncService is a programmable stub for the sync service.
type fakeSyncService struct {
	reconcileResult syncservice.ReconciliationResult

	ReconcileMemberFunc func(ctx context.Context, discordID sharedtypes.DiscordID) (syncservice.ReconciliationResult, error)
	ReconcileAllFunc    func(ctx context.Context) (*syncservice.SweepReport, error)
}

func (f *fakeSyncService) ReconcileMember(ctx context.Context, discordID sharedtypes.DiscordID) (syncservice.ReconciliationResult, error) {
	if f.ReconcileMemberFunc != nil {
		return f.ReconcileMemberFunc(ctx, discordID)
	}
	return f.reconcileResult, nil
}

func (f *fakeSyncService) ReconcileAll(ctx context.Context) (*syncservice.SweepReport, error) {
	if f.ReconcileAllFunc != nil {
		return f.ReconcileAllFunc(ctx)
	}
	return &syncservice.SweepReport{}, nil
}

var _ syncservice.Service = (*fakeSyncService)(nil)

func rankDef(order sharedtypes.RankOrder, name string) *sharedtypes.RankDefinition {
	return &sharedtypes.RankDefinition{Order: order, Name: name}
}
