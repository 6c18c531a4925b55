package synchandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleMemberSyncRequested handles the RankSyncMemberRequested event: a
// single-member reconciliation from an admin action or status query.
func (h *SyncHandlers) HandleMemberSyncRequested(ctx context.Context, payload *events.RankSyncMemberRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.ReconcileMember(ctx, payload.DiscordID)
	if err != nil {
		return nil, err
	}

	return resultEvents(result), nil
}
