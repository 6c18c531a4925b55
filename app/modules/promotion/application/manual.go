package promotionservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/clanworks/clanbot/app/events"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/results"
)

// PromoteManually advances the member one ladder rung, traversing admin-only
// ranks. It reconciles the member first so "next" is computed relative to
// ground truth rather than a stale snapshot. The points gate applies only to
// point-based target ranks; admin-only tiers have no threshold.
func (s *PromotionService) PromoteManually(ctx context.Context, discordID sharedtypes.DiscordID, requestedBy sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "PromoteManually", discordID, func(ctx context.Context) (results.OperationResult, error) {
		recon, err := s.reconciler.ReconcileMember(ctx, discordID)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}
		if recon.Outcome == syncservice.OutcomeFailed {
			// Best effort: the authority being down must not block an admin
			// acting on local state.
			s.logger.WarnContext(ctx, "Pre-promotion reconcile failed, promoting from local state",
				attr.String("discord_id", string(discordID)),
				attr.String("reason", recon.Reason),
			)
		}

		// The reconcile above takes the member lock itself, so it must finish
		// before we acquire it here. The fresh read under the lock keeps the
		// commit consistent even if a sweep slipped in between.
		s.locks.Lock(string(discordID))
		defer s.locks.Unlock(string(discordID))

		member, err := s.members.GetByDiscordID(ctx, discordID)
		if err != nil {
			if errors.Is(err, memberdb.ErrMemberNotFound) {
				return resolutionFailure(discordID, 0, "member not found"), nil
			}
			return results.OperationResult{Error: err}, err
		}

		next, err := s.ladder.NextRank(ctx, member.CurrentRankOrder, true)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}
		if next == nil {
			return resolutionFailure(discordID, 0, "member already holds the highest rank"), nil
		}

		if !next.AdminOnly && member.Points < next.PointsRequired {
			return resolutionFailure(discordID, next.Order,
				fmt.Sprintf("insufficient points for %s: %d < %d", next.Name, member.Points, next.PointsRequired)), nil
		}

		return s.commit(ctx, member, next, requestedBy, events.SourceManualPromotion)
	})
}
