package submissionhandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleCreateRequested handles the SubmissionCreateRequested event.
func (h *SubmissionHandlers) HandleCreateRequested(ctx context.Context, payload *events.SubmissionCreateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.Submit(ctx, payload)
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result,
		events.SubmissionCreatedV1,
		events.SubmissionCreateFailedV1,
	), nil
}
