package promotionservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/clanworks/clanbot/app/events"
	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/results"
)

// Approve resolves a pending promotion: re-validates against current state,
// commits the rank, then pushes the new rank to the group authority. The
// authority push is best effort; the local commit stands either way and the
// next sweep repairs any divergence.
func (s *PromotionService) Approve(ctx context.Context, discordID sharedtypes.DiscordID, targetOrder sharedtypes.RankOrder, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "Approve", discordID, func(ctx context.Context) (results.OperationResult, error) {
		// Hold the member lock across the whole read-validate-commit so an
		// in-flight reconcile cannot overwrite the approved rank.
		s.locks.Lock(string(discordID))
		defer s.locks.Unlock(string(discordID))

		member, err := s.members.GetByDiscordID(ctx, discordID)
		if err != nil {
			if errors.Is(err, memberdb.ErrMemberNotFound) {
				return resolutionFailure(discordID, targetOrder, "member not found"), nil
			}
			return results.OperationResult{Error: err}, err
		}

		// A second press of the same approval button lands here.
		if member.CurrentRankOrder >= targetOrder {
			return resolutionFailure(discordID, targetOrder, "member already at or above the approved rank"), nil
		}

		target, err := s.ladder.ByOrder(ctx, targetOrder)
		if err != nil {
			if errors.Is(err, ladderdb.ErrRankNotFound) {
				return resolutionFailure(discordID, targetOrder, "approved rank no longer exists in the ladder"), nil
			}
			return results.OperationResult{Error: err}, err
		}

		// Points may have been spent between detection and approval.
		if !target.AdminOnly && member.Points < target.PointsRequired {
			return resolutionFailure(discordID, targetOrder,
				fmt.Sprintf("points dropped below threshold: %d < %d", member.Points, target.PointsRequired)), nil
		}

		return s.commit(ctx, member, target, reviewerID, events.SourceApproval)
	})
}

// Deny discards a pending promotion. The member keeps their points and rank.
func (s *PromotionService) Deny(ctx context.Context, discordID sharedtypes.DiscordID, targetOrder sharedtypes.RankOrder, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "Deny", discordID, func(ctx context.Context) (results.OperationResult, error) {
		s.logger.InfoContext(ctx, "Pending promotion denied",
			attr.String("discord_id", string(discordID)),
			attr.Int("target_rank_order", int(targetOrder)),
			attr.String("reviewer_id", string(reviewerID)),
		)
		return results.OperationResult{}, nil
	})
}

// commit is the shared tail of every promotion path: rank commit, then the
// best-effort authority push.
func (s *PromotionService) commit(ctx context.Context, member *sharedtypes.Member, target *sharedtypes.RankDefinition, reviewerID sharedtypes.DiscordID, source events.RankChangeSource) (results.OperationResult, error) {
	oldOrder := member.CurrentRankOrder

	if _, err := s.members.SetRank(ctx, member.DiscordID, target.Order); err != nil {
		return results.OperationResult{Error: err}, err
	}

	robloxSynced := true
	if err := s.authority.SetMemberRank(ctx, member.RobloxUsername, target.RobloxRankRef); err != nil {
		robloxSynced = false
		s.logger.WarnContext(ctx, "Group authority rank push failed after local commit",
			attr.String("discord_id", string(member.DiscordID)),
			attr.String("target_rank", target.Name),
			attr.Error(err),
		)
	}

	return results.OperationResult{
		Success: &events.PromotionResolvedPayloadV1{
			DiscordID:    member.DiscordID,
			OldRankOrder: oldOrder,
			NewRankOrder: target.Order,
			NewRankName:  target.Name,
			ReviewerID:   reviewerID,
			Source:       source,
			RobloxSynced: robloxSynced,
		},
	}, nil
}

func resolutionFailure(discordID sharedtypes.DiscordID, targetOrder sharedtypes.RankOrder, reason string) results.OperationResult {
	return results.OperationResult{
		Failure: &events.PromotionResolutionFailedPayloadV1{
			DiscordID:       discordID,
			TargetRankOrder: targetOrder,
			Reason:          reason,
		},
	}
}
