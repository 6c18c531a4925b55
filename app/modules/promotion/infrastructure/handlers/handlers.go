// Package promotionhandlers transforms promotion events into service calls
// and result events.
package promotionhandlers

import (
	"github.com/clanworks/clanbot/app/events"
	promotionservice "github.com/clanworks/clanbot/app/modules/promotion/application"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/results"
)

// PromotionHandlers implements the Handlers interface for promotion events.
type PromotionHandlers struct {
	service promotionservice.Service
}

// NewPromotionHandlers creates a new PromotionHandlers instance.
func NewPromotionHandlers(service promotionservice.Service) *PromotionHandlers {
	return &PromotionHandlers{service: service}
}

// resolutionResults maps a resolution outcome to outgoing events. A committed
// rank change emits both the resolution record and the rank-updated event the
// role projector consumes.
func resolutionResults(result results.OperationResult) []handlerwrapper.Result {
	if resolved, ok := result.Success.(*events.PromotionResolvedPayloadV1); ok {
		return []handlerwrapper.Result{
			{Topic: events.PromotionResolvedV1, Payload: resolved},
			{Topic: events.RankUpdatedV1, Payload: &events.RankUpdatedPayloadV1{
				DiscordID:    resolved.DiscordID,
				OldRankOrder: resolved.OldRankOrder,
				NewRankOrder: resolved.NewRankOrder,
				NewRankName:  resolved.NewRankName,
				Source:       resolved.Source,
			}},
		}
	}
	if result.Failure != nil {
		return []handlerwrapper.Result{
			{Topic: events.PromotionResolutionFailedV1, Payload: result.Failure},
		}
	}
	return nil
}
