package projectionhandlers

import (
	"context"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// Handlers is the handler surface the projection router registers.
type Handlers interface {
	HandleRankUpdated(ctx context.Context, payload *events.RankUpdatedPayloadV1) ([]handlerwrapper.Result, error)
}

var _ Handlers = (*ProjectionHandlers)(nil)
