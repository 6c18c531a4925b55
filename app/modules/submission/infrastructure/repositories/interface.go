package submissiondb

import (
	"context"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// Repository is the submission store surface.
type Repository interface {
	// Create stores a new pending submission and fills in its ID.
	Create(ctx context.Context, submission *EventSubmission) error

	// GetByID returns the submission or ErrSubmissionNotFound.
	GetByID(ctx context.Context, id int64) (*EventSubmission, error)

	// ListPending returns unresolved submissions, oldest first.
	ListPending(ctx context.Context) ([]EventSubmission, error)

	// Resolve moves a pending submission to approved or denied. Returns
	// ErrSubmissionResolved when the submission was already resolved, so a
	// double review cannot award points twice.
	Resolve(ctx context.Context, id int64, status SubmissionStatus, reviewerID sharedtypes.DiscordID) (*EventSubmission, error)
}
