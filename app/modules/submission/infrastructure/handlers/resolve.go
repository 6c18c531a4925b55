package submissionhandlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/clanworks/clanbot/app/events"
	submissiondb "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleApproveRequested handles the SubmissionApproveRequested event. An
// approval fans out one point-award request per participant alongside the
// approval record.
func (h *SubmissionHandlers) HandleApproveRequested(ctx context.Context, payload *events.SubmissionApproveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.ApproveSubmission(ctx, payload.SubmissionID, payload.ReviewerID)
	if err != nil {
		return nil, err
	}

	if result.Failure != nil {
		return []handlerwrapper.Result{
			{Topic: events.SubmissionResolveFailedV1, Payload: result.Failure},
		}, nil
	}

	submission, ok := result.Success.(*submissiondb.EventSubmission)
	if !ok {
		return nil, fmt.Errorf("unexpected success payload %T", result.Success)
	}

	out := []handlerwrapper.Result{
		{Topic: events.SubmissionApprovedV1, Payload: &events.SubmissionApprovedPayloadV1{
			SubmissionID: submission.ID,
			ReviewerID:   payload.ReviewerID,
			Points:       submission.Points,
			Participants: len(submission.Participants),
		}},
	}
	for _, participant := range submission.Participants {
		out = append(out, handlerwrapper.Result{
			Topic: events.MemberPointsAwardRequestedV1,
			Payload: &events.MemberPointsAwardRequestedPayloadV1{
				DiscordID: participant,
				Delta:     submission.Points,
				Reason:    fmt.Sprintf("event: %s", submission.EventName),
			},
		})
	}
	return out, nil
}

// HandleDenyRequested handles the SubmissionDenyRequested event.
func (h *SubmissionHandlers) HandleDenyRequested(ctx context.Context, payload *events.SubmissionDenyRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.DenySubmission(ctx, payload.SubmissionID, payload.ReviewerID)
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result,
		events.SubmissionDeniedV1,
		events.SubmissionResolveFailedV1,
	), nil
}
