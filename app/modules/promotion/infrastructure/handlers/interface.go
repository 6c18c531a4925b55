package promotionhandlers

import (
	"context"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// Handlers is the handler surface the promotion router registers.
type Handlers interface {
	HandlePointsAwarded(ctx context.Context, payload *events.MemberPointsAwardedPayloadV1) ([]handlerwrapper.Result, error)
	HandleApproved(ctx context.Context, payload *events.PromotionApprovedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDenied(ctx context.Context, payload *events.PromotionDeniedPayloadV1) ([]handlerwrapper.Result, error)
	HandleManualRequested(ctx context.Context, payload *events.PromotionManualRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

var _ Handlers = (*PromotionHandlers)(nil)
