package promotionhandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandlePointsAwarded handles the MemberPointsAwarded event. Only point
// increases can cross a threshold, so decreases are acked without an
// eligibility check.
func (h *PromotionHandlers) HandlePointsAwarded(ctx context.Context, payload *events.MemberPointsAwardedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}
	if payload.Delta <= 0 {
		return nil, nil
	}

	result, err := h.service.CheckEligibility(ctx, payload.DiscordID)
	if err != nil {
		return nil, err
	}

	detected, ok := result.Success.(*events.PromotionEligibilityDetectedPayloadV1)
	if !ok {
		// Not eligible, or the member vanished between the award and the
		// check. Either way there is nothing to surface.
		return nil, nil
	}

	return []handlerwrapper.Result{
		{Topic: events.PromotionEligibilityDetectedV1, Payload: detected},
	}, nil
}
