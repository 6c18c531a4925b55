package syncservice

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// GroupAuthority is the slice of the group-rank API the engine queries.
// Satisfied by the roblox client.
type GroupAuthority interface {
	GetMemberRank(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.GroupRank, error)
}

// Service is the reconciliation engine's surface. Reconciliation is invoked
// from the periodic sweep, single-member admin actions, and as a pre-step
// before manual promotion, with identical semantics.
type Service interface {
	ReconcileMember(ctx context.Context, discordID sharedtypes.DiscordID) (ReconciliationResult, error)
	ReconcileAll(ctx context.Context) (*SweepReport, error)
}

var _ Service = (*SyncService)(nil)
