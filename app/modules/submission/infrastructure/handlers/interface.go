package submissionhandlers

import (
	"context"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// Handlers is the handler surface the submission router registers.
type Handlers interface {
	HandleCreateRequested(ctx context.Context, payload *events.SubmissionCreateRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleApproveRequested(ctx context.Context, payload *events.SubmissionApproveRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDenyRequested(ctx context.Context, payload *events.SubmissionDenyRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

var _ Handlers = (*SubmissionHandlers)(nil)
