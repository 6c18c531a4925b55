package memberservice

import (
	"context"
	"errors"

	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// Standing is a member's progress snapshot for status displays.
type Standing struct {
	Member      sharedtypes.Member
	CurrentRank sharedtypes.RankDefinition
	// NextRank is the next point-based rank, nil at the ceiling or on an
	// admin-only tier.
	NextRank *sharedtypes.RankDefinition
	// PointsToNext is how many points remain; zero when NextRank is nil or
	// already reachable.
	PointsToNext int
}

// GetStanding returns the member with their current and next ladder entries.
func (s *MemberService) GetStanding(ctx context.Context, discordID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "GetStanding", discordID, func(ctx context.Context) (results.OperationResult, error) {
		member, err := s.repo.GetByDiscordID(ctx, discordID)
		if err != nil {
			if errors.Is(err, memberdb.ErrMemberNotFound) {
				return results.OperationResult{Failure: "member not found"}, nil
			}
			return results.OperationResult{Error: err}, err
		}

		current, err := s.ladder.ByOrder(ctx, member.CurrentRankOrder)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}

		standing := &Standing{Member: *member, CurrentRank: *current}

		if !current.AdminOnly {
			next, err := s.ladder.NextRank(ctx, member.CurrentRankOrder, false)
			if err != nil {
				return results.OperationResult{Error: err}, err
			}
			standing.NextRank = next
			if next != nil && next.PointsRequired > member.Points {
				standing.PointsToNext = next.PointsRequired - member.Points
			}
		}

		return results.OperationResult{Success: standing}, nil
	})
}

// GetLeaderboard returns the lifetime-points leaderboard.
func (s *MemberService) GetLeaderboard(ctx context.Context, limit int) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "GetLeaderboard", "", func(ctx context.Context) (results.OperationResult, error) {
		if limit <= 0 {
			limit = 10
		}
		members, err := s.repo.ListTopByTotalPoints(ctx, limit)
		if err != nil {
			return results.OperationResult{Error: err}, err
		}
		return results.OperationResult{Success: members}, nil
	})
}
