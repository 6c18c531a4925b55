package promotionhandlers

import (
	"context"
	"errors"
	"testing"

	"github.com/clanworks/clanbot/app/events"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/results"
)

func TestHandlePointsAwarded(t *testing.T) {
	ctx := context.Background()
	eligible := &events.PromotionEligibilityDetectedPayloadV1{
		DiscordID:       "disc-1",
		CurrentOrder:    1,
		TargetRankOrder: 2,
		TargetRankName:  "Soldier",
		Points:          50,
		PointsRequired:  50,
	}

	tests := []struct {
		name       string
		payload    *events.MemberPointsAwardedPayloadV1
		result     results.OperationResult
		serviceErr error
		wantTopics []string
		wantErr    bool
		wantCall   bool
	}{
		{
			name:       "eligible member surfaces a pending promotion",
			payload:    &events.MemberPointsAwardedPayloadV1{DiscordID: "disc-1", Delta: 50, NewPoints: 50},
			result:     results.OperationResult{Success: eligible},
			wantTopics: []string{events.PromotionEligibilityDetectedV1},
			wantCall:   true,
		},
		{
			name:     "ineligible member emits nothing",
			payload:  &events.MemberPointsAwardedPayloadV1{DiscordID: "disc-1", Delta: 10, NewPoints: 20},
			result:   results.OperationResult{},
			wantCall: true,
		},
		{
			name:    "point decrease skips the check entirely",
			payload: &events.MemberPointsAwardedPayloadV1{DiscordID: "disc-1", Delta: -10, NewPoints: 40},
		},
		{
			name:    "nil payload",
			wantErr: true,
		},
		{
			name:       "service error propagates for redelivery",
			payload:    &events.MemberPointsAwardedPayloadV1{DiscordID: "disc-1", Delta: 50, NewPoints: 50},
			serviceErr: errors.New("db down"),
			wantErr:    true,
			wantCall:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeService{eligibilityResult: tt.result, eligibilityErr: tt.serviceErr}
			h := NewPromotionHandlers(service)

			got, err := h.HandlePointsAwarded(ctx, tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HandlePointsAwarded() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantCall != (service.lastOp == "CheckEligibility") {
				t.Errorf("service called = %v, want %v", service.lastOp == "CheckEligibility", tt.wantCall)
			}
			assertTopics(t, got, tt.wantTopics)
		})
	}
}

func TestHandleApproved(t *testing.T) {
	ctx := context.Background()
	resolved := &events.PromotionResolvedPayloadV1{
		DiscordID:    "disc-1",
		OldRankOrder: 1,
		NewRankOrder: 2,
		NewRankName:  "Soldier",
		ReviewerID:   "admin-1",
		Source:       events.SourceApproval,
		RobloxSynced: true,
	}

	t.Run("commit emits resolved and rank-updated", func(t *testing.T) {
		service := &fakeService{resolveResult: results.OperationResult{Success: resolved}}
		h := NewPromotionHandlers(service)

		got, err := h.HandleApproved(ctx, &events.PromotionApprovedPayloadV1{
			DiscordID: "disc-1", TargetRankOrder: 2, ReviewerID: "admin-1",
		})
		if err != nil {
			t.Fatalf("HandleApproved() error = %v", err)
		}
		assertTopics(t, got, []string{events.PromotionResolvedV1, events.RankUpdatedV1})

		updated, ok := got[1].Payload.(*events.RankUpdatedPayloadV1)
		if !ok {
			t.Fatalf("second payload = %T, want *RankUpdatedPayloadV1", got[1].Payload)
		}
		if updated.Source != events.SourceApproval || updated.NewRankOrder != 2 {
			t.Errorf("rank update = %+v, want approval to rank 2", updated)
		}
		if service.lastTarget != 2 || service.lastReviewer != "admin-1" {
			t.Errorf("service call = (%d, %s), want (2, admin-1)", service.lastTarget, service.lastReviewer)
		}
	})

	t.Run("resolution failure emits failure event only", func(t *testing.T) {
		service := &fakeService{resolveResult: results.OperationResult{
			Failure: &events.PromotionResolutionFailedPayloadV1{DiscordID: "disc-1", TargetRankOrder: 2, Reason: "points dropped"},
		}}
		h := NewPromotionHandlers(service)

		got, err := h.HandleApproved(ctx, &events.PromotionApprovedPayloadV1{DiscordID: "disc-1", TargetRankOrder: 2, ReviewerID: "admin-1"})
		if err != nil {
			t.Fatalf("HandleApproved() error = %v", err)
		}
		assertTopics(t, got, []string{events.PromotionResolutionFailedV1})
	})

	t.Run("nil payload", func(t *testing.T) {
		h := NewPromotionHandlers(&fakeService{})
		if _, err := h.HandleApproved(ctx, nil); err == nil {
			t.Fatal("HandleApproved(nil) error = nil, want error")
		}
	})
}

func TestHandleDenied_EmitsNothing(t *testing.T) {
	service := &fakeService{}
	h := NewPromotionHandlers(service)

	got, err := h.HandleDenied(context.Background(), &events.PromotionDeniedPayloadV1{
		DiscordID: "disc-1", TargetRankOrder: 2, ReviewerID: "admin-1",
	})
	if err != nil {
		t.Fatalf("HandleDenied() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results = %v, want none", got)
	}
	if service.lastOp != "Deny" {
		t.Errorf("service op = %q, want Deny", service.lastOp)
	}
}

func TestHandleManualRequested(t *testing.T) {
	resolved := &events.PromotionResolvedPayloadV1{
		DiscordID:    "disc-1",
		OldRankOrder: 2,
		NewRankOrder: 3,
		NewRankName:  "Officer",
		ReviewerID:   "admin-1",
		Source:       events.SourceManualPromotion,
	}
	service := &fakeService{resolveResult: results.OperationResult{Success: resolved}}
	h := NewPromotionHandlers(service)

	got, err := h.HandleManualRequested(context.Background(), &events.PromotionManualRequestedPayloadV1{
		DiscordID: "disc-1", RequestedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("HandleManualRequested() error = %v", err)
	}
	assertTopics(t, got, []string{events.PromotionResolvedV1, events.RankUpdatedV1})
	if service.lastDiscordID != sharedtypes.DiscordID("disc-1") {
		t.Errorf("discordID = %s, want disc-1", service.lastDiscordID)
	}
}

func assertTopics(t *testing.T, got []handlerwrapper.Result, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Topic != want[i] {
			t.Errorf("result[%d].Topic = %q, want %q", i, got[i].Topic, want[i])
		}
	}
}
