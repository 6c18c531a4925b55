package memberhandlers

import (
	"context"
	"errors"
	"testing"

	"github.com/clanworks/clanbot/app/events"
	memberservice "github.com/clanworks/clanbot/app/modules/member/application"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

type fakeService struct {
	awardResult results.OperationResult
	awardErr    error

	lastDiscordID sharedtypes.DiscordID
	lastDelta     int
	lastReason    string
}

func (f *fakeService) LinkRoblox(ctx context.Context, discordID sharedtypes.DiscordID, username sharedtypes.RobloxUsername, startingOrder sharedtypes.RankOrder) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

func (f *fakeService) AwardPoints(ctx context.Context, discordID sharedtypes.DiscordID, delta int, reason string) (results.OperationResult, error) {
	f.lastDiscordID, f.lastDelta, f.lastReason = discordID, delta, reason
	return f.awardResult, f.awardErr
}

func (f *fakeService) GetStanding(ctx context.Context, discordID sharedtypes.DiscordID) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

func (f *fakeService) GetLeaderboard(ctx context.Context, limit int) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

var _ memberservice.Service = (*fakeService)(nil)

func TestHandleAwardPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("committed award emits awarded", func(t *testing.T) {
		service := &fakeService{awardResult: results.OperationResult{
			Success: &events.MemberPointsAwardedPayloadV1{DiscordID: "disc-1", Delta: 4, NewPoints: 54},
		}}
		h := NewMemberHandlers(service)

		got, err := h.HandleAwardPoints(ctx, &events.MemberPointsAwardRequestedPayloadV1{
			DiscordID: "disc-1", Delta: 4, Reason: "event: Raid Night",
		})
		if err != nil {
			t.Fatalf("HandleAwardPoints() error = %v", err)
		}
		if len(got) != 1 || got[0].Topic != events.MemberPointsAwardedV1 {
			t.Fatalf("results = %v, want one MemberPointsAwarded event", got)
		}
		if service.lastDiscordID != "disc-1" || service.lastDelta != 4 || service.lastReason != "event: Raid Night" {
			t.Errorf("service call = (%s, %d, %q), want (disc-1, 4, event: Raid Night)",
				service.lastDiscordID, service.lastDelta, service.lastReason)
		}
	})

	t.Run("rejected award emits award-failed", func(t *testing.T) {
		service := &fakeService{awardResult: results.OperationResult{
			Failure: &events.MemberPointsAwardFailedPayloadV1{DiscordID: "disc-1", Delta: -10, Reason: "balance would go negative"},
		}}
		h := NewMemberHandlers(service)

		got, err := h.HandleAwardPoints(ctx, &events.MemberPointsAwardRequestedPayloadV1{DiscordID: "disc-1", Delta: -10})
		if err != nil {
			t.Fatalf("HandleAwardPoints() error = %v", err)
		}
		if len(got) != 1 || got[0].Topic != events.MemberPointsAwardFailedV1 {
			t.Fatalf("results = %v, want one MemberPointsAwardFailed event", got)
		}
	})

	t.Run("nil payload", func(t *testing.T) {
		h := NewMemberHandlers(&fakeService{})
		if _, err := h.HandleAwardPoints(ctx, nil); err == nil {
			t.Fatal("HandleAwardPoints(nil) error = nil, want error")
		}
	})

	t.Run("service error propagates for redelivery", func(t *testing.T) {
		service := &fakeService{awardErr: errors.New("db down")}
		h := NewMemberHandlers(service)

		if _, err := h.HandleAwardPoints(ctx, &events.MemberPointsAwardRequestedPayloadV1{DiscordID: "disc-1", Delta: 1}); err == nil {
			t.Fatal("HandleAwardPoints() error = nil, want error")
		}
	})
}
