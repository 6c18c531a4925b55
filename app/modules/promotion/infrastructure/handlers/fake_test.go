package promotionhandlers

import (
	"context"

	promotionservice "github.com/clanworks/clanbot/app/modules/promotion/application"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// fakeService returns canned results per operation and records the last call.
type fakeService struct {
	eligibilityResult results.OperationResult
	eligibilityErr    error
	resolveResult     results.OperationResult
	resolveErr        error

	lastOp        string
	lastDiscordID sharedtypes.DiscordID
	lastTarget    sharedtypes.RankOrder
	lastReviewer  sharedtypes.DiscordID
}

func (f *fakeService) CheckEligibility(ctx context.Context, discordID sharedtypes.DiscordID) (results.OperationResult, error) {
	f.lastOp, f.lastDiscordID = "CheckEligibility", discordID
	return f.eligibilityResult, f.eligibilityErr
}

func (f *fakeService) Approve(ctx context.Context, discordID sharedtypes.DiscordID, targetOrder sharedtypes.RankOrder, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	f.lastOp, f.lastDiscordID, f.lastTarget, f.lastReviewer = "Approve", discordID, targetOrder, reviewerID
	return f.resolveResult, f.resolveErr
}

func (f *fakeService) Deny(ctx context.Context, discordID sharedtypes.DiscordID, targetOrder sharedtypes.RankOrder, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	f.lastOp, f.lastDiscordID, f.lastTarget, f.lastReviewer = "Deny", discordID, targetOrder, reviewerID
	return f.resolveResult, f.resolveErr
}

func (f *fakeService) PromoteManually(ctx context.Context, discordID sharedtypes.DiscordID, requestedBy sharedtypes.DiscordID) (results.OperationResult, error) {
	f.lastOp, f.lastDiscordID, f.lastReviewer = "PromoteManually", discordID, requestedBy
	return f.resolveResult, f.resolveErr
}

var _ promotionservice.Service = (*fakeService)(nil)
