package synchandlers

import (
	"context"
	"errors"
	"testing"

	"github.com/clanworks/clanbot/app/events"
	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
)

func TestHandleSweepRequested(t *testing.T) {
	service := &fakeSyncService{
		ReconcileAllFunc: func(ctx context.Context) (*syncservice.SweepReport, error) {
			return &syncservice.SweepReport{
				Counts: syncservice.SweepCounts{Updated: 1, InSync: 2, Skipped: 1, Failed: 1},
				Updates: []syncservice.ReconciliationResult{
					{
						Outcome:   syncservice.OutcomeUpdated,
						DiscordID: "disc-1",
						OldRank:   rankDef(1, "Recruit"),
						NewRank:   rankDef(2, "Soldier"),
					},
				},
			}, nil
		},
	}

	h := NewSyncHandlers(service)
	results, err := h.HandleSweepRequested(context.Background(), &events.RankSyncSweepRequestedPayloadV1{SweepID: "sweep-1"})
	if err != nil {
		t.Fatalf("HandleSweepRequested() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (update + summary)", len(results))
	}

	if results[0].Topic != events.RankUpdatedV1 {
		t.Errorf("results[0].Topic = %s, want %s", results[0].Topic, events.RankUpdatedV1)
	}
	update, ok := results[0].Payload.(*events.RankUpdatedPayloadV1)
	if !ok {
		t.Fatalf("results[0].Payload = %T, want *RankUpdatedPayloadV1", results[0].Payload)
	}
	if update.Source != events.SourceReconciliation {
		t.Errorf("update.Source = %s, want reconciliation", update.Source)
	}

	if results[1].Topic != events.RankSyncCompletedV1 {
		t.Errorf("results[1].Topic = %s, want %s", results[1].Topic, events.RankSyncCompletedV1)
	}
	summary, ok := results[1].Payload.(*events.RankSyncCompletedPayloadV1)
	if !ok {
		t.Fatalf("results[1].Payload = %T, want *RankSyncCompletedPayloadV1", results[1].Payload)
	}
	if summary.Updated != 1 || summary.InSync != 2 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1/2/1/1", summary)
	}
	if summary.SweepID != "sweep-1" {
		t.Errorf("summary.SweepID = %q, want sweep-1", summary.SweepID)
	}
}

func TestHandleMemberSyncRequested(t *testing.T) {
	tests := []struct {
		name      string
		result    syncservice.ReconciliationResult
		wantTopic string
		wantNone  bool
	}{
		{
			name: "updated emits rank updated",
			result: syncservice.ReconciliationResult{
				Outcome:   syncservice.OutcomeUpdated,
				DiscordID: "disc-1",
				OldRank:   rankDef(1, "Recruit"),
				NewRank:   rankDef(2, "Soldier"),
			},
			wantTopic: events.RankUpdatedV1,
		},
		{
			name: "failed emits sync failed",
			result: syncservice.ReconciliationResult{
				Outcome:   syncservice.OutcomeFailed,
				DiscordID: "disc-1",
				Reason:    "group authority unavailable",
			},
			wantTopic: events.RankSyncFailedV1,
		},
		{
			name:     "in sync emits nothing",
			result:   syncservice.ReconciliationResult{Outcome: syncservice.OutcomeInSync, DiscordID: "disc-1"},
			wantNone: true,
		},
		{
			name:     "skipped emits nothing",
			result:   syncservice.ReconciliationResult{Outcome: syncservice.OutcomeSkipped, DiscordID: "disc-1"},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &fakeSyncService{reconcileResult: tt.result}

			h := NewSyncHandlers(service)
			results, err := h.HandleMemberSyncRequested(context.Background(), &events.RankSyncMemberRequestedPayloadV1{DiscordID: "disc-1"})
			if err != nil {
				t.Fatalf("HandleMemberSyncRequested() error = %v", err)
			}
			if tt.wantNone {
				if len(results) != 0 {
					t.Fatalf("len(results) = %d, want 0", len(results))
				}
				return
			}
			if len(results) != 1 || results[0].Topic != tt.wantTopic {
				t.Fatalf("results = %+v, want one result on %s", results, tt.wantTopic)
			}
		})
	}
}

func TestHandleSweepRequested_NilPayload(t *testing.T) {
	h := NewSyncHandlers(&fakeSyncService{})
	if _, err := h.HandleSweepRequested(context.Background(), nil); err == nil {
		t.Fatal("HandleSweepRequested(nil) error = nil, want error")
	}
}

func TestHandleSweepRequested_ServiceError(t *testing.T) {
	service := &fakeSyncService{
		ReconcileAllFunc: func(ctx context.Context) (*syncservice.SweepReport, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewSyncHandlers(service)
	if _, err := h.HandleSweepRequested(context.Background(), &events.RankSyncSweepRequestedPayloadV1{}); err == nil {
		t.Fatal("HandleSweepRequested() error = nil, want error")
	}
}
