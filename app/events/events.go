// Package events defines the internal event topics and payloads exchanged
// between modules over NATS JetStream.
package events

import (
	"time"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// Stream names. One stream per module keeps retention and consumer limits
// independent.
const (
	MemberStream    = "member"
	RankStream      = "rank"
	PromotionStream = "promotion"
	RoleStream      = "role"
)

// Topics. Versioned so payloads can evolve without breaking consumers.
const (
	MemberPointsAwardRequestedV1 = "member.points.award.requested.v1"
	MemberPointsAwardedV1        = "member.points.awarded.v1"
	MemberPointsAwardFailedV1    = "member.points.award.failed.v1"

	SubmissionCreateRequestedV1  = "member.submission.create.requested.v1"
	SubmissionCreatedV1          = "member.submission.created.v1"
	SubmissionCreateFailedV1     = "member.submission.create.failed.v1"
	SubmissionApproveRequestedV1 = "member.submission.approve.requested.v1"
	SubmissionApprovedV1         = "member.submission.approved.v1"
	SubmissionDenyRequestedV1    = "member.submission.deny.requested.v1"
	SubmissionDeniedV1           = "member.submission.denied.v1"
	SubmissionResolveFailedV1    = "member.submission.resolve.failed.v1"

	RankSyncSweepRequestedV1  = "rank.sync.sweep.requested.v1"
	RankSyncMemberRequestedV1 = "rank.sync.member.requested.v1"
	RankSyncCompletedV1       = "rank.sync.completed.v1"
	RankSyncFailedV1          = "rank.sync.failed.v1"
	RankUpdatedV1             = "rank.updated.v1"

	PromotionEligibilityDetectedV1 = "promotion.eligibility.detected.v1"
	PromotionManualRequestedV1     = "promotion.manual.requested.v1"
	PromotionApprovedV1            = "promotion.approved.v1"
	PromotionDeniedV1              = "promotion.denied.v1"
	PromotionResolvedV1            = "promotion.resolved.v1"
	PromotionResolutionFailedV1    = "promotion.resolution.failed.v1"

	RoleProjectionFailedV1 = "role.projection.failed.v1"
)

// RankChangeSource identifies which path committed a rank change.
type RankChangeSource string

const (
	SourceReconciliation  RankChangeSource = "reconciliation"
	SourceManualPromotion RankChangeSource = "manual_promotion"
	SourceApproval        RankChangeSource = "approval"
)

// MemberPointsAwardRequestedPayloadV1 asks the member store to apply a point
// delta. Negative deltas are allowed as long as the balance stays >= 0.
type MemberPointsAwardRequestedPayloadV1 struct {
	DiscordID sharedtypes.DiscordID `json:"discord_id"`
	Delta     int                   `json:"delta"`
	Reason    string                `json:"reason,omitempty"`
}

// MemberPointsAwardedPayloadV1 is published after a point delta is committed;
// positive deltas trigger the promotion eligibility check.
type MemberPointsAwardedPayloadV1 struct {
	DiscordID sharedtypes.DiscordID `json:"discord_id"`
	Delta     int                   `json:"delta"`
	NewPoints int                   `json:"new_points"`
}

// MemberPointsAwardFailedPayloadV1 reports an award that was rejected.
type MemberPointsAwardFailedPayloadV1 struct {
	DiscordID sharedtypes.DiscordID `json:"discord_id"`
	Delta     int                   `json:"delta"`
	Reason    string                `json:"reason"`
}

// SubmissionCreateRequestedPayloadV1 records an event submission for review.
// OccurredAt is free text ("yesterday 8pm") parsed on the way in.
type SubmissionCreateRequestedPayloadV1 struct {
	SubmitterID  sharedtypes.DiscordID   `json:"submitter_id"`
	EventName    string                  `json:"event_name"`
	Points       int                     `json:"points"`
	Participants []sharedtypes.DiscordID `json:"participants"`
	OccurredAt   string                  `json:"occurred_at,omitempty"`
	ImageURL     string                  `json:"image_url,omitempty"`
}

// SubmissionCreatedPayloadV1 acknowledges a stored submission.
type SubmissionCreatedPayloadV1 struct {
	SubmissionID int64                 `json:"submission_id"`
	SubmitterID  sharedtypes.DiscordID `json:"submitter_id"`
	EventName    string                `json:"event_name"`
	Points       int                   `json:"points"`
	Participants int                   `json:"participants"`
}

// SubmissionCreateFailedPayloadV1 reports a rejected submission.
type SubmissionCreateFailedPayloadV1 struct {
	SubmitterID sharedtypes.DiscordID `json:"submitter_id"`
	EventName   string                `json:"event_name"`
	Reason      string                `json:"reason"`
}

// SubmissionApproveRequestedPayloadV1 asks for a pending submission to be
// approved, awarding its points to every participant.
type SubmissionApproveRequestedPayloadV1 struct {
	SubmissionID int64                 `json:"submission_id"`
	ReviewerID   sharedtypes.DiscordID `json:"reviewer_id"`
}

// SubmissionApprovedPayloadV1 confirms an approval.
type SubmissionApprovedPayloadV1 struct {
	SubmissionID int64                 `json:"submission_id"`
	ReviewerID   sharedtypes.DiscordID `json:"reviewer_id"`
	Points       int                   `json:"points"`
	Participants int                   `json:"participants"`
}

// SubmissionDenyRequestedPayloadV1 asks for a pending submission to be denied.
type SubmissionDenyRequestedPayloadV1 struct {
	SubmissionID int64                 `json:"submission_id"`
	ReviewerID   sharedtypes.DiscordID `json:"reviewer_id"`
}

// SubmissionDeniedPayloadV1 confirms a denial. No points move.
type SubmissionDeniedPayloadV1 struct {
	SubmissionID int64                 `json:"submission_id"`
	ReviewerID   sharedtypes.DiscordID `json:"reviewer_id"`
}

// SubmissionResolveFailedPayloadV1 reports an approve/deny that could not be
// applied.
type SubmissionResolveFailedPayloadV1 struct {
	SubmissionID int64  `json:"submission_id"`
	Reason       string `json:"reason"`
}

// RankSyncSweepRequestedPayloadV1 asks the reconciliation engine to sweep
// every member. Published by the scheduler and by admin commands.
type RankSyncSweepRequestedPayloadV1 struct {
	SweepID     string                `json:"sweep_id"`
	RequestedBy sharedtypes.DiscordID `json:"requested_by,omitempty"`
}

// RankSyncMemberRequestedPayloadV1 asks for a single-member reconciliation.
type RankSyncMemberRequestedPayloadV1 struct {
	DiscordID   sharedtypes.DiscordID `json:"discord_id"`
	RequestedBy sharedtypes.DiscordID `json:"requested_by,omitempty"`
}

// RankSyncCompletedPayloadV1 summarizes a sweep for the operator channel.
type RankSyncCompletedPayloadV1 struct {
	SweepID string `json:"sweep_id"`
	Updated int    `json:"updated"`
	InSync  int    `json:"in_sync"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// RankSyncFailedPayloadV1 reports a reconciliation that could not run at all.
type RankSyncFailedPayloadV1 struct {
	DiscordID sharedtypes.DiscordID `json:"discord_id,omitempty"`
	Reason    string                `json:"reason"`
}

// RankUpdatedPayloadV1 is published after a rank commit in the member store;
// role projection consumes it.
type RankUpdatedPayloadV1 struct {
	DiscordID    sharedtypes.DiscordID `json:"discord_id"`
	OldRankOrder sharedtypes.RankOrder `json:"old_rank_order"`
	NewRankOrder sharedtypes.RankOrder `json:"new_rank_order"`
	NewRankName  string                `json:"new_rank_name"`
	Source       RankChangeSource      `json:"source"`
}

// PromotionEligibilityDetectedPayloadV1 carries a pending promotion to the
// human-approval surface. It is ephemeral; Discord owns the durability of
// the approval prompt.
type PromotionEligibilityDetectedPayloadV1 struct {
	DiscordID       sharedtypes.DiscordID `json:"discord_id"`
	CurrentOrder    sharedtypes.RankOrder `json:"current_order"`
	TargetRankOrder sharedtypes.RankOrder `json:"target_rank_order"`
	TargetRankName  string                `json:"target_rank_name"`
	Points          int                   `json:"points"`
	PointsRequired  int                   `json:"points_required"`
	DetectedAt      time.Time             `json:"detected_at"`
}

// PromotionManualRequestedPayloadV1 asks for an admin-driven promotion to the
// next ladder rank, admin-only ranks included.
type PromotionManualRequestedPayloadV1 struct {
	DiscordID   sharedtypes.DiscordID `json:"discord_id"`
	RequestedBy sharedtypes.DiscordID `json:"requested_by"`
}

// PromotionApprovedPayloadV1 records the human approval of a pending
// promotion.
type PromotionApprovedPayloadV1 struct {
	DiscordID       sharedtypes.DiscordID `json:"discord_id"`
	TargetRankOrder sharedtypes.RankOrder `json:"target_rank_order"`
	ReviewerID      sharedtypes.DiscordID `json:"reviewer_id"`
}

// PromotionDeniedPayloadV1 records a denial. No member state changes.
type PromotionDeniedPayloadV1 struct {
	DiscordID       sharedtypes.DiscordID `json:"discord_id"`
	TargetRankOrder sharedtypes.RankOrder `json:"target_rank_order"`
	ReviewerID      sharedtypes.DiscordID `json:"reviewer_id"`
}

// PromotionResolvedPayloadV1 reports the outcome of resolving an approval or
// a manual promotion.
type PromotionResolvedPayloadV1 struct {
	DiscordID    sharedtypes.DiscordID `json:"discord_id"`
	OldRankOrder sharedtypes.RankOrder `json:"old_rank_order"`
	NewRankOrder sharedtypes.RankOrder `json:"new_rank_order"`
	NewRankName  string                `json:"new_rank_name"`
	ReviewerID   sharedtypes.DiscordID `json:"reviewer_id"`
	Source       RankChangeSource      `json:"source"`
	RobloxSynced bool                  `json:"roblox_synced"`
}

// PromotionResolutionFailedPayloadV1 reports an approval that could not be
// committed.
type PromotionResolutionFailedPayloadV1 struct {
	DiscordID       sharedtypes.DiscordID `json:"discord_id"`
	TargetRankOrder sharedtypes.RankOrder `json:"target_rank_order"`
	Reason          string                `json:"reason"`
}

// RoleProjectionFailedPayloadV1 reports a partial projection failure: the
// rank commit stands but the Discord role is stale until the next sweep.
type RoleProjectionFailedPayloadV1 struct {
	DiscordID sharedtypes.DiscordID `json:"discord_id"`
	Step      string                `json:"step"`
	Reason    string                `json:"reason"`
}
