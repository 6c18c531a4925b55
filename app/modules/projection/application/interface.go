package projectionservice

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// ProjectionResult reports how far a projection got. A set Step marks a
// partial failure: the rank commit stands but the Discord role is stale
// until the next sweep.
type ProjectionResult struct {
	DiscordID sharedtypes.DiscordID
	// Step names the projection step that was abandoned, empty on full
	// success.
	Step   string
	Reason string
}

// Failed reports whether a step was abandoned.
func (r ProjectionResult) Failed() bool { return r.Step != "" }

// Service is the projection module's application surface.
type Service interface {
	// Project mirrors a committed rank change onto guild roles: the old rank
	// role is removed when held and the new rank role is created on first use
	// and granted. Only infrastructure faults surface as errors; Discord-side
	// failures are partial-failure results.
	Project(ctx context.Context, discordID sharedtypes.DiscordID, oldOrder, newOrder sharedtypes.RankOrder) (ProjectionResult, error)
}

var _ Service = (*ProjectionService)(nil)
