package memberhandlers

import (
	"context"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// Handlers is the member module's event-handling surface.
type Handlers interface {
	HandleAwardPoints(ctx context.Context, payload *events.MemberPointsAwardRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

var _ Handlers = (*MemberHandlers)(nil)
