// Package synchandlers transforms sync events into reconciliation calls and
// result events.
package synchandlers

import (
	"github.com/clanworks/clanbot/app/events"
	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// SyncHandlers implements the Handlers interface for sync events.
type SyncHandlers struct {
	service syncservice.Service
}

// NewSyncHandlers creates a new SyncHandlers instance.
func NewSyncHandlers(service syncservice.Service) *SyncHandlers {
	return &SyncHandlers{service: service}
}

// resultEvents maps one reconciliation result onto the events it produces: a
// rank-updated event for projection on Updated, a failure report on Failed,
// nothing otherwise.
func resultEvents(result syncservice.ReconciliationResult) []handlerwrapper.Result {
	switch result.Outcome {
	case syncservice.OutcomeUpdated:
		return []handlerwrapper.Result{{
			Topic: events.RankUpdatedV1,
			Payload: &events.RankUpdatedPayloadV1{
				DiscordID:    result.DiscordID,
				OldRankOrder: result.OldRank.Order,
				NewRankOrder: result.NewRank.Order,
				NewRankName:  result.NewRank.Name,
				Source:       events.SourceReconciliation,
			},
		}}
	case syncservice.OutcomeFailed:
		return []handlerwrapper.Result{{
			Topic: events.RankSyncFailedV1,
			Payload: &events.RankSyncFailedPayloadV1{
				DiscordID: result.DiscordID,
				Reason:    result.Reason,
			},
		}}
	default:
		return nil
	}
}
