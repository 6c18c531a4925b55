package memberhandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleAwardPoints handles the MemberPointsAwardRequested event.
func (h *MemberHandlers) HandleAwardPoints(ctx context.Context, payload *events.MemberPointsAwardRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.AwardPoints(ctx, payload.DiscordID, payload.Delta, payload.Reason)
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result,
		events.MemberPointsAwardedV1,
		events.MemberPointsAwardFailedV1,
	), nil
}
