package projectionhandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleRankUpdated handles the RankUpdated event. A partial projection
// failure is published, never returned: redelivering the message would not
// help once the retry ceiling was hit, and the next sweep converges the role.
func (h *ProjectionHandlers) HandleRankUpdated(ctx context.Context, payload *events.RankUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.Project(ctx, payload.DiscordID, payload.OldRankOrder, payload.NewRankOrder)
	if err != nil {
		return nil, err
	}

	if result.Failed() {
		return []handlerwrapper.Result{
			{Topic: events.RoleProjectionFailedV1, Payload: &events.RoleProjectionFailedPayloadV1{
				DiscordID: result.DiscordID,
				Step:      result.Step,
				Reason:    result.Reason,
			}},
		}, nil
	}
	return nil, nil
}
