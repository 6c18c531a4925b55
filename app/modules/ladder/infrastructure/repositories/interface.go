package ladderdb

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// Repository is the read surface of the rank ladder plus its one-time seed.
type Repository interface {
	// Seed replaces the stored catalog with defs. Called once at startup.
	Seed(ctx context.Context, defs []sharedtypes.RankDefinition) error

	// AllRanks returns the catalog ordered ascending by rank order.
	AllRanks(ctx context.Context) ([]sharedtypes.RankDefinition, error)

	// ByOrder returns the definition at order, or ErrRankNotFound.
	ByOrder(ctx context.Context, order sharedtypes.RankOrder) (*sharedtypes.RankDefinition, error)

	// NextRank returns the definition with the smallest order strictly greater
	// than currentOrder, skipping admin-only ranks unless includeAdminOnly is
	// set. Returns nil, nil at the ceiling.
	NextRank(ctx context.Context, currentOrder sharedtypes.RankOrder, includeAdminOnly bool) (*sharedtypes.RankDefinition, error)

	// ByExternalRef matches the catalog by the authority's rank reference,
	// trying primaryRef first and secondaryRef only when the primary has no
	// match. Returns nil, nil when neither matches; that is a named outcome,
	// not an error.
	ByExternalRef(ctx context.Context, primaryRef, secondaryRef int64) (*sharedtypes.RankDefinition, error)
}
