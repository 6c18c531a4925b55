package submissiondb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// SubmissionStatus is the review state of an event submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusDenied   SubmissionStatus = "denied"
)

// EventSubmission is a claim that a clan event happened, awaiting review.
// Approval awards Points to every participant.
type EventSubmission struct {
	bun.BaseModel `bun:"table:event_submissions,alias:es"`

	ID           int64                   `bun:"id,pk,autoincrement"`
	SubmitterID  sharedtypes.DiscordID   `bun:"submitter_id,notnull"`
	EventName    string                  `bun:"event_name,notnull"`
	Points       int                     `bun:"points,notnull"`
	Participants []sharedtypes.DiscordID `bun:"participants,type:jsonb,notnull"`
	OccurredAt   *time.Time              `bun:"occurred_at,nullzero"`
	ImageURL     string                  `bun:"image_url,nullzero"`
	Status       SubmissionStatus        `bun:"status,notnull,default:'pending'"`
	ReviewedBy   sharedtypes.DiscordID   `bun:"reviewed_by,nullzero"`
	ReviewedAt   *time.Time              `bun:"reviewed_at,nullzero"`
	CreatedAt    time.Time               `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
