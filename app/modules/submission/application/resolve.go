package submissionservice

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	submissiondb "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/results"
)

// ApproveSubmission resolves a pending submission as approved. The resolved
// record rides in Success so the handler can request one point award per
// participant. Resolution is one-shot: a second approval is a failure result,
// which is what keeps points from being awarded twice.
func (s *SubmissionService) ApproveSubmission(ctx context.Context, id int64, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "ApproveSubmission", func(ctx context.Context) (results.OperationResult, error) {
		submission, err := s.repo.Resolve(ctx, id, submissiondb.StatusApproved, reviewerID)
		if err != nil {
			if failure := resolveFailure(id, err); failure != nil {
				return results.OperationResult{Failure: failure}, nil
			}
			return results.OperationResult{Error: err}, err
		}

		s.logger.InfoContext(ctx, "Submission approved",
			attr.Int("submission_id", int(submission.ID)),
			attr.String("event_name", submission.EventName),
			attr.Int("points", submission.Points),
			attr.Int("participants", len(submission.Participants)),
			attr.String("reviewer_id", string(reviewerID)),
		)
		return results.OperationResult{Success: submission}, nil
	})
}

// DenySubmission resolves a pending submission as denied. No points move.
func (s *SubmissionService) DenySubmission(ctx context.Context, id int64, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "DenySubmission", func(ctx context.Context) (results.OperationResult, error) {
		submission, err := s.repo.Resolve(ctx, id, submissiondb.StatusDenied, reviewerID)
		if err != nil {
			if failure := resolveFailure(id, err); failure != nil {
				return results.OperationResult{Failure: failure}, nil
			}
			return results.OperationResult{Error: err}, err
		}

		return results.OperationResult{
			Success: &events.SubmissionDeniedPayloadV1{
				SubmissionID: submission.ID,
				ReviewerID:   reviewerID,
			},
		}, nil
	})
}

// resolveFailure maps expected store conditions to a failure payload, nil for
// infrastructure faults.
func resolveFailure(id int64, err error) *events.SubmissionResolveFailedPayloadV1 {
	switch {
	case errors.Is(err, submissiondb.ErrSubmissionNotFound):
		return &events.SubmissionResolveFailedPayloadV1{SubmissionID: id, Reason: "submission not found"}
	case errors.Is(err, submissiondb.ErrSubmissionResolved):
		return &events.SubmissionResolveFailedPayloadV1{SubmissionID: id, Reason: "submission already resolved"}
	default:
		return nil
	}
}
