package promotionservice

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// Service is the promotion module's application surface.
type Service interface {
	// CheckEligibility evaluates the point threshold. Success carries an
	// eligibility payload when the member qualifies, nil when not; a negative
	// answer is not a failure.
	CheckEligibility(ctx context.Context, discordID sharedtypes.DiscordID) (results.OperationResult, error)

	// Approve resolves a pending promotion into a rank commit.
	Approve(ctx context.Context, discordID sharedtypes.DiscordID, targetOrder sharedtypes.RankOrder, reviewerID sharedtypes.DiscordID) (results.OperationResult, error)

	// Deny discards a pending promotion. No member state changes.
	Deny(ctx context.Context, discordID sharedtypes.DiscordID, targetOrder sharedtypes.RankOrder, reviewerID sharedtypes.DiscordID) (results.OperationResult, error)

	// PromoteManually advances the member one rung, admin-only ranks
	// included, after reconciling them to ground truth.
	PromoteManually(ctx context.Context, discordID sharedtypes.DiscordID, requestedBy sharedtypes.DiscordID) (results.OperationResult, error)
}

var _ Service = (*PromotionService)(nil)
