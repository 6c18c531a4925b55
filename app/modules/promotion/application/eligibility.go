package promotionservice

import (
	"context"
	"errors"
	"time"

	"github.com/clanworks/clanbot/app/events"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// CheckEligibility detects a point-threshold crossing. Invoked whenever
// points increase, never on decrease. A positive result surfaces a pending
// promotion for human review; nothing is committed here.
func (s *PromotionService) CheckEligibility(ctx context.Context, discordID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "CheckEligibility", discordID, func(ctx context.Context) (results.OperationResult, error) {
		member, err := s.members.GetByDiscordID(ctx, discordID)
		if err != nil {
			if errors.Is(err, memberdb.ErrMemberNotFound) {
				return results.OperationResult{Failure: "member not found"}, nil
			}
			return results.OperationResult{Error: err}, err
		}

		currentDef, err := s.ladder.ByOrder(ctx, member.CurrentRankOrder)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}

		// Admin-tier members never auto-promote; only manual promotion moves
		// them.
		if currentDef.AdminOnly {
			return results.OperationResult{}, nil
		}

		next, err := s.ladder.NextRank(ctx, member.CurrentRankOrder, false)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}
		if next == nil {
			// Already at the point-based ceiling.
			return results.OperationResult{}, nil
		}

		if member.Points < next.PointsRequired {
			return results.OperationResult{}, nil
		}

		return results.OperationResult{
			Success: &events.PromotionEligibilityDetectedPayloadV1{
				DiscordID:       discordID,
				CurrentOrder:    member.CurrentRankOrder,
				TargetRankOrder: next.Order,
				TargetRankName:  next.Name,
				Points:          member.Points,
				PointsRequired:  next.PointsRequired,
				DetectedAt:      time.Now().UTC(),
			},
		}, nil
	})
}
