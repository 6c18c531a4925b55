package ladderservice

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// Service is the ladder module's application surface.
type Service interface {
	SeedCatalog(ctx context.Context, defs []sharedtypes.RankDefinition) (results.OperationResult, error)
	GetCatalog(ctx context.Context) (results.OperationResult, error)
}

var _ Service = (*LadderService)(nil)
