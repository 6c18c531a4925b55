package synchandlers

import (
	"context"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// Handlers is the sync module's event-handling surface.
type Handlers interface {
	HandleSweepRequested(ctx context.Context, payload *events.RankSyncSweepRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleMemberSyncRequested(ctx context.Context, payload *events.RankSyncMemberRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

var _ Handlers = (*SyncHandlers)(nil)
