package memberservice

import (
	"context"
	"errors"
	"fmt"

	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
	"github.com/clanworks/clanbot/internal/roblox"
)

// LinkRoblox binds a verified Roblox username to a Discord account. A new
// account is created at the starting rank; re-linking an already-linked
// account rebinds the username and keeps rank and points. A username held by
// another member is never taken over.
func (s *MemberService) LinkRoblox(ctx context.Context, discordID sharedtypes.DiscordID, username sharedtypes.RobloxUsername, startingOrder sharedtypes.RankOrder) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "LinkRoblox", discordID, func(ctx context.Context) (results.OperationResult, error) {
		if discordID == "" || username == "" {
			err := errors.New("discord ID and roblox username are required")
			return results.OperationResult{Error: err}, err
		}

		if _, err := s.resolver.GetUserID(ctx, username); err != nil {
			if errors.Is(err, roblox.ErrMemberNotFound) {
				reason := fmt.Sprintf("roblox user %q does not exist", username)
				return results.OperationResult{Failure: reason}, nil
			}
			return results.OperationResult{Error: err}, err
		}

		existing, err := s.repo.GetByDiscordID(ctx, discordID)
		if err != nil && !errors.Is(err, memberdb.ErrMemberNotFound) {
			return results.OperationResult{Error: err}, err
		}
		if existing != nil {
			updated, err := s.repo.UpdateRobloxUsername(ctx, discordID, username)
			if err != nil {
				if errors.Is(err, memberdb.ErrDuplicateIdentity) {
					reason := fmt.Sprintf("roblox username %q is already linked to another member", username)
					return results.OperationResult{Failure: reason}, nil
				}
				return results.OperationResult{Error: err}, err
			}
			return results.OperationResult{Success: updated}, nil
		}

		member := &sharedtypes.Member{
			DiscordID:        discordID,
			RobloxUsername:   username,
			CurrentRankOrder: startingOrder,
		}
		if err := s.repo.Create(ctx, member); err != nil {
			if errors.Is(err, memberdb.ErrDuplicateIdentity) {
				reason := fmt.Sprintf("roblox username %q is already linked to another member", username)
				return results.OperationResult{Failure: reason}, nil
			}
			return results.OperationResult{Error: err}, err
		}

		return results.OperationResult{Success: member}, nil
	})
}
