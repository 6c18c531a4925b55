package memberdb

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// Repository is the member record store.
type Repository interface {
	// Create inserts a new member. Fails with ErrDuplicateIdentity when the
	// Roblox username is already bound (case-insensitive) to another account.
	Create(ctx context.Context, member *sharedtypes.Member) error

	// UpdateRobloxUsername rebinds an existing member to a new Roblox
	// username, keeping rank and points. The same duplicate rule as Create
	// applies; fails with ErrMemberNotFound when the member does not exist.
	UpdateRobloxUsername(ctx context.Context, discordID sharedtypes.DiscordID, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error)

	// GetByDiscordID returns the member, or ErrMemberNotFound.
	GetByDiscordID(ctx context.Context, discordID sharedtypes.DiscordID) (*sharedtypes.Member, error)

	// GetByRobloxUsername looks a member up case-insensitively.
	GetByRobloxUsername(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error)

	// GetAll returns every member in creation order. Sweeps iterate this.
	GetAll(ctx context.Context) ([]sharedtypes.Member, error)

	// ListTopByTotalPoints returns up to limit members ordered by lifetime
	// points descending.
	ListTopByTotalPoints(ctx context.Context, limit int) ([]sharedtypes.Member, error)

	// AddPoints applies delta to points and, for positive deltas, to
	// totalPoints. The store does not clamp; callers pre-validate that the
	// balance stays non-negative. Returns the updated member.
	AddPoints(ctx context.Context, discordID sharedtypes.DiscordID, delta int) (*sharedtypes.Member, error)

	// SetRank atomically sets currentRankOrder and resets points to zero. The
	// only rank mutation path; every promotion consumes the point budget.
	// Fails with ErrUnknownRank when newOrder has no ladder entry.
	SetRank(ctx context.Context, discordID sharedtypes.DiscordID, newOrder sharedtypes.RankOrder) (*sharedtypes.Member, error)
}
