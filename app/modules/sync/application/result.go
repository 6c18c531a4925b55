package syncservice

import (
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// Outcome tags a single member's reconciliation result. Every category is
// surfaced separately; collapsing them loses operational signal.
type Outcome string

const (
	OutcomeInSync  Outcome = "in_sync"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ReconciliationResult is the per-invocation outcome. Never persisted.
type ReconciliationResult struct {
	Outcome   Outcome
	DiscordID sharedtypes.DiscordID

	// OldRank and NewRank are set on Updated.
	OldRank *sharedtypes.RankDefinition
	NewRank *sharedtypes.RankDefinition

	// ExternalRank is the authority's answer, when one was obtained.
	ExternalRank *sharedtypes.GroupRank

	// Reason is human-readable context for Skipped and Failed.
	Reason string

	// Err is the underlying error on Failed. Informational; a failed member
	// never aborts a sweep.
	Err error
}

// SweepCounts aggregates a batch reconciliation.
type SweepCounts struct {
	Updated int
	InSync  int
	Skipped int
	Failed  int
}

// SweepReport is the full outcome of a sweep: counts for the operator
// summary plus one entry per committed update for role projection.
type SweepReport struct {
	Counts  SweepCounts
	Updates []ReconciliationResult
}
