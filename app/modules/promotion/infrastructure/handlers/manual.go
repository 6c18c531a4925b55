package promotionhandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleManualRequested handles the PromotionManualRequested event.
func (h *PromotionHandlers) HandleManualRequested(ctx context.Context, payload *events.PromotionManualRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.PromoteManually(ctx, payload.DiscordID, payload.RequestedBy)
	if err != nil {
		return nil, err
	}

	return resolutionResults(result), nil
}
