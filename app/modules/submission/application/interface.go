package submissionservice

import (
	"context"

	"github.com/clanworks/clanbot/app/events"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// Service is the submission module's application surface.
type Service interface {
	// Submit validates and stores a new pending submission.
	Submit(ctx context.Context, request *events.SubmissionCreateRequestedPayloadV1) (results.OperationResult, error)

	// ApproveSubmission resolves a pending submission as approved. Success
	// carries the resolved record so the caller can fan out point awards.
	ApproveSubmission(ctx context.Context, id int64, reviewerID sharedtypes.DiscordID) (results.OperationResult, error)

	// DenySubmission resolves a pending submission as denied. No points move.
	DenySubmission(ctx context.Context, id int64, reviewerID sharedtypes.DiscordID) (results.OperationResult, error)
}

var _ Service = (*SubmissionService)(nil)
