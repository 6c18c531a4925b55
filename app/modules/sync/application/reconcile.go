package syncservice

import (
	"context"
	"errors"
	"fmt"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/roblox"
)

// ReconcileMember compares the member's stored rank against the authority and
// corrects the local record on mismatch. Per-member outcomes never return an
// error; the error path is reserved for storage faults.
func (s *SyncService) ReconcileMember(ctx context.Context, discordID sharedtypes.DiscordID) (ReconciliationResult, error) {
	return s.serviceWrapper(ctx, "ReconcileMember", discordID, func(ctx context.Context) (ReconciliationResult, error) {
		s.locks.Lock(string(discordID))
		defer s.locks.Unlock(string(discordID))

		return s.reconcileLocked(ctx, discordID)
	})
}

func (s *SyncService) reconcileLocked(ctx context.Context, discordID sharedtypes.DiscordID) (ReconciliationResult, error) {
	member, err := s.members.GetByDiscordID(ctx, discordID)
	if err != nil {
		if errors.Is(err, memberdb.ErrMemberNotFound) {
			return ReconciliationResult{
				Outcome:   OutcomeFailed,
				DiscordID: discordID,
				Reason:    "member not found",
				Err:       err,
			}, nil
		}
		return ReconciliationResult{}, err
	}

	currentDef, err := s.ladder.ByOrder(ctx, member.CurrentRankOrder)
	if err != nil {
		if errors.Is(err, ladderdb.ErrRankNotFound) {
			// Structurally impossible under the rank FK, checked anyway.
			return ReconciliationResult{
				Outcome:   OutcomeFailed,
				DiscordID: discordID,
				Reason:    fmt.Sprintf("member rank order %d has no ladder entry", member.CurrentRankOrder),
				Err:       err,
			}, nil
		}
		return ReconciliationResult{}, err
	}

	external, err := s.authority.GetMemberRank(ctx, member.RobloxUsername)
	if err != nil {
		if errors.Is(err, roblox.ErrMemberNotFound) {
			return ReconciliationResult{
				Outcome:      OutcomeSkipped,
				DiscordID:    discordID,
				Reason:       fmt.Sprintf("roblox user %q is not a group member", member.RobloxUsername),
				ExternalRank: nil,
			}, nil
		}
		// The member is treated as unchanged, not as an abort condition.
		return ReconciliationResult{
			Outcome:   OutcomeFailed,
			DiscordID: discordID,
			Reason:    "group authority unavailable",
			Err:       err,
		}, nil
	}

	// Either the exact role ID or the coarse rank number may have been used
	// when the ladder was configured; both count as a match.
	if currentDef.RobloxRankRef == external.RoleID || currentDef.RobloxRankRef == int64(external.RankNumber) {
		return ReconciliationResult{
			Outcome:      OutcomeInSync,
			DiscordID:    discordID,
			OldRank:      currentDef,
			ExternalRank: external,
		}, nil
	}

	target, err := s.ladder.ByExternalRef(ctx, external.RoleID, int64(external.RankNumber))
	if err != nil {
		return ReconciliationResult{}, err
	}
	if target == nil {
		return ReconciliationResult{
			Outcome:      OutcomeSkipped,
			DiscordID:    discordID,
			OldRank:      currentDef,
			ExternalRank: external,
			Reason:       fmt.Sprintf("no ladder entry matches external rank %q (role %d, rank %d)", external.Name, external.RoleID, external.RankNumber),
		}, nil
	}

	if _, err := s.members.SetRank(ctx, discordID, target.Order); err != nil {
		return ReconciliationResult{}, err
	}

	s.logger.InfoContext(ctx, "Rank reconciled",
		attr.String("discord_id", string(discordID)),
		attr.String("old_rank", currentDef.Name),
		attr.String("new_rank", target.Name),
	)

	return ReconciliationResult{
		Outcome:      OutcomeUpdated,
		DiscordID:    discordID,
		OldRank:      currentDef,
		NewRank:      target,
		ExternalRank: external,
	}, nil
}
