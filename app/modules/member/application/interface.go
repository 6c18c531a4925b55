package memberservice

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// Service is the member module's application surface.
type Service interface {
	LinkRoblox(ctx context.Context, discordID sharedtypes.DiscordID, username sharedtypes.RobloxUsername, startingOrder sharedtypes.RankOrder) (results.OperationResult, error)
	AwardPoints(ctx context.Context, discordID sharedtypes.DiscordID, delta int, reason string) (results.OperationResult, error)
	GetStanding(ctx context.Context, discordID sharedtypes.DiscordID) (results.OperationResult, error)
	GetLeaderboard(ctx context.Context, limit int) (results.OperationResult, error)
}

var _ Service = (*MemberService)(nil)
