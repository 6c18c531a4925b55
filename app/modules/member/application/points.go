package memberservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/clanworks/clanbot/app/events"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// AwardPoints applies a point delta. Subtractive deltas are pre-validated
// here so the balance never goes negative; the store does not clamp.
func (s *MemberService) AwardPoints(ctx context.Context, discordID sharedtypes.DiscordID, delta int, reason string) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "AwardPoints", discordID, func(ctx context.Context) (results.OperationResult, error) {
		if delta == 0 {
			err := errors.New("point delta must be non-zero")
			return results.OperationResult{Error: err}, err
		}

		member, err := s.repo.GetByDiscordID(ctx, discordID)
		if err != nil {
			if errors.Is(err, memberdb.ErrMemberNotFound) {
				return results.OperationResult{
					Failure: &events.MemberPointsAwardFailedPayloadV1{
						DiscordID: discordID,
						Delta:     delta,
						Reason:    "member not found",
					},
				}, nil
			}
			return results.OperationResult{Error: err}, err
		}

		if delta < 0 && member.Points+delta < 0 {
			return results.OperationResult{
				Failure: &events.MemberPointsAwardFailedPayloadV1{
					DiscordID: discordID,
					Delta:     delta,
					Reason:    fmt.Sprintf("balance %d cannot absorb delta %d", member.Points, delta),
				},
			}, nil
		}

		updated, err := s.repo.AddPoints(ctx, discordID, delta)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}

		return results.OperationResult{
			Success: &events.MemberPointsAwardedPayloadV1{
				DiscordID: discordID,
				Delta:     delta,
				NewPoints: updated.Points,
			},
		}, nil
	})
}
