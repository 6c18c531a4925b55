package promotionhandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleApproved handles the PromotionApproved event.
func (h *PromotionHandlers) HandleApproved(ctx context.Context, payload *events.PromotionApprovedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.Approve(ctx, payload.DiscordID, payload.TargetRankOrder, payload.ReviewerID)
	if err != nil {
		return nil, err
	}

	return resolutionResults(result), nil
}

// HandleDenied handles the PromotionDenied event. Denials change no state and
// emit nothing; the service records the reviewer for the audit log.
func (h *PromotionHandlers) HandleDenied(ctx context.Context, payload *events.PromotionDeniedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	if _, err := h.service.Deny(ctx, payload.DiscordID, payload.TargetRankOrder, payload.ReviewerID); err != nil {
		return nil, err
	}
	return nil, nil
}
