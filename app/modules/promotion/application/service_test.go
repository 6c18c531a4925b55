package promotionservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/clanworks/clanbot/app/events"
	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/keymutex"
	"github.com/clanworks/clanbot/internal/metrics"
	"github.com/clanworks/clanbot/internal/results"
)

func testLadder() *ladderdb.FakeRepository {
	return ladderdb.NewFakeRepository(
		sharedtypes.RankDefinition{Order: 1, Name: "Recruit", PointsRequired: 0, RobloxRankRef: 100},
		sharedtypes.RankDefinition{Order: 2, Name: "Soldier", PointsRequired: 50, RobloxRankRef: 200},
		sharedtypes.RankDefinition{Order: 3, Name: "Officer", PointsRequired: 0, RobloxRankRef: 300, AdminOnly: true},
		sharedtypes.RankDefinition{Order: 4, Name: "Veteran", PointsRequired: 120, RobloxRankRef: 400},
	)
}

func newTestService(members memberdb.Repository, ladder ladderdb.Repository, setter RankSetter, reconciler Reconciler) *PromotionService {
	s := NewPromotionService(members, ladder, setter, reconciler, keymutex.New(), slog.New(slog.DiscardHandler), &metrics.NoOpMetrics{}, noop.NewTracerProvider().Tracer("test"))
	s.serviceWrapper = func(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (results.OperationResult, error) {
		return op(ctx)
	}
	return s
}

func seedMember(order sharedtypes.RankOrder, points int) *memberdb.FakeRepository {
	repo := memberdb.NewFakeRepository()
	repo.Put(sharedtypes.Member{
		DiscordID:        "disc-1",
		RobloxUsername:   "CoolDude",
		CurrentRankOrder: order,
		Points:           points,
		TotalPoints:      points,
	})
	return repo
}

func TestCheckEligibility(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		order        sharedtypes.RankOrder
		points       int
		wantEligible bool
		wantTarget   sharedtypes.RankOrder
	}{
		{name: "threshold met", order: 1, points: 50, wantEligible: true, wantTarget: 2},
		{name: "threshold exceeded", order: 1, points: 75, wantEligible: true, wantTarget: 2},
		{name: "below threshold", order: 1, points: 49},
		{name: "admin-only current rank never eligible", order: 3, points: 100000},
		{name: "next skips admin-only tier", order: 2, points: 120, wantEligible: true, wantTarget: 4},
		{name: "at point-based ceiling", order: 4, points: 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(seedMember(tt.order, tt.points), testLadder(), &fakeRankSetter{}, &fakeReconciler{})

			result, err := s.CheckEligibility(ctx, "disc-1")
			if err != nil {
				t.Fatalf("CheckEligibility() error = %v", err)
			}
			if !tt.wantEligible {
				if result.Success != nil {
					t.Fatalf("result = %+v, want no eligibility", result)
				}
				return
			}

			payload, ok := result.Success.(*events.PromotionEligibilityDetectedPayloadV1)
			if !ok {
				t.Fatalf("result.Success = %T, want *PromotionEligibilityDetectedPayloadV1", result.Success)
			}
			if payload.TargetRankOrder != tt.wantTarget {
				t.Errorf("target = %d, want %d", payload.TargetRankOrder, tt.wantTarget)
			}
		})
	}
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("commits rank and pushes to authority", func(t *testing.T) {
		members := seedMember(1, 50)
		setter := &fakeRankSetter{}
		s := newTestService(members, testLadder(), setter, &fakeReconciler{})

		result, err := s.Approve(ctx, "disc-1", 2, "admin-1")
		if err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		payload, ok := result.Success.(*events.PromotionResolvedPayloadV1)
		if !ok {
			t.Fatalf("result.Success = %T, want *PromotionResolvedPayloadV1", result.Success)
		}
		if payload.OldRankOrder != 1 || payload.NewRankOrder != 2 || !payload.RobloxSynced {
			t.Errorf("payload = %+v, want 1 -> 2 synced", payload)
		}
		if payload.Source != events.SourceApproval {
			t.Errorf("source = %s, want approval", payload.Source)
		}

		member, _ := members.GetByDiscordID(ctx, "disc-1")
		if member.CurrentRankOrder != 2 || member.Points != 0 {
			t.Errorf("member = %+v, want rank 2 with 0 points", member)
		}
		if member.TotalPoints != 50 {
			t.Errorf("totalPoints = %d, want 50 (unchanged by rank commit)", member.TotalPoints)
		}
		if refs := setter.pushedRefs(); len(refs) != 1 || refs[0] != 200 {
			t.Errorf("authority pushes = %v, want [200]", refs)
		}
	})

	t.Run("authority failure keeps local commit", func(t *testing.T) {
		members := seedMember(1, 50)
		setter := &fakeRankSetter{
			SetMemberRankFunc: func(ctx context.Context, username sharedtypes.RobloxUsername, rankRef int64) error {
				return errors.New("roblox down")
			},
		}
		s := newTestService(members, testLadder(), setter, &fakeReconciler{})

		result, err := s.Approve(ctx, "disc-1", 2, "admin-1")
		if err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		payload := result.Success.(*events.PromotionResolvedPayloadV1)
		if payload.RobloxSynced {
			t.Error("RobloxSynced = true, want false")
		}

		member, _ := members.GetByDiscordID(ctx, "disc-1")
		if member.CurrentRankOrder != 2 {
			t.Errorf("rank = %d, want 2 (commit stands)", member.CurrentRankOrder)
		}
	})

	t.Run("double approval is a failure result", func(t *testing.T) {
		members := seedMember(1, 50)
		s := newTestService(members, testLadder(), &fakeRankSetter{}, &fakeReconciler{})

		if _, err := s.Approve(ctx, "disc-1", 2, "admin-1"); err != nil {
			t.Fatalf("first Approve() error = %v", err)
		}
		result, err := s.Approve(ctx, "disc-1", 2, "admin-2")
		if err != nil {
			t.Fatalf("second Approve() error = %v", err)
		}
		if result.Failure == nil {
			t.Fatalf("second Approve() result = %+v, want failure", result)
		}
	})

	t.Run("points spent since detection is a failure result", func(t *testing.T) {
		members := seedMember(1, 10)
		s := newTestService(members, testLadder(), &fakeRankSetter{}, &fakeReconciler{})

		result, err := s.Approve(ctx, "disc-1", 2, "admin-1")
		if err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if result.Failure == nil {
			t.Fatalf("result = %+v, want failure", result)
		}
	})
}

func TestApprove_WaitsForMemberLock(t *testing.T) {
	ctx := context.Background()
	members := seedMember(1, 50)
	s := newTestService(members, testLadder(), &fakeRankSetter{}, &fakeReconciler{})

	// Simulate a reconcile in flight on the same member.
	s.locks.Lock("disc-1")

	type outcome struct {
		result results.OperationResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.Approve(ctx, "disc-1", 2, "admin-1")
		done <- outcome{result, err}
	}()

	time.Sleep(50 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Approve() returned while the member lock was held")
	default:
	}
	member, _ := members.GetByDiscordID(ctx, "disc-1")
	if member.CurrentRankOrder != 1 {
		t.Fatalf("rank = %d while lock held, want 1 (no commit yet)", member.CurrentRankOrder)
	}

	s.locks.Unlock("disc-1")
	got := <-done
	if got.err != nil {
		t.Fatalf("Approve() error = %v", got.err)
	}
	if got.result.Success == nil {
		t.Fatalf("Approve() result = %+v, want success after lock release", got.result)
	}
	member, _ = members.GetByDiscordID(ctx, "disc-1")
	if member.CurrentRankOrder != 2 {
		t.Errorf("rank = %d after release, want 2", member.CurrentRankOrder)
	}
}

func TestDeny_NoStateChange(t *testing.T) {
	ctx := context.Background()
	members := seedMember(1, 50)
	s := newTestService(members, testLadder(), &fakeRankSetter{}, &fakeReconciler{})

	if _, err := s.Deny(ctx, "disc-1", 2, "admin-1"); err != nil {
		t.Fatalf("Deny() error = %v", err)
	}

	member, _ := members.GetByDiscordID(ctx, "disc-1")
	if member.CurrentRankOrder != 1 || member.Points != 50 {
		t.Errorf("member mutated on deny: %+v", member)
	}
}

func TestPromoteManually(t *testing.T) {
	ctx := context.Background()

	t.Run("traverses admin-only rank without points gate", func(t *testing.T) {
		members := seedMember(2, 0)
		setter := &fakeRankSetter{}
		s := newTestService(members, testLadder(), setter, &fakeReconciler{})

		result, err := s.PromoteManually(ctx, "disc-1", "admin-1")
		if err != nil {
			t.Fatalf("PromoteManually() error = %v", err)
		}
		payload, ok := result.Success.(*events.PromotionResolvedPayloadV1)
		if !ok {
			t.Fatalf("result.Success = %T, want *PromotionResolvedPayloadV1", result.Success)
		}
		if payload.NewRankOrder != 3 {
			t.Errorf("new rank = %d, want 3 (admin-only)", payload.NewRankOrder)
		}
		if payload.Source != events.SourceManualPromotion {
			t.Errorf("source = %s, want manual_promotion", payload.Source)
		}
	})

	t.Run("points gate applies to point-based target", func(t *testing.T) {
		members := seedMember(1, 10)
		s := newTestService(members, testLadder(), &fakeRankSetter{}, &fakeReconciler{})

		result, err := s.PromoteManually(ctx, "disc-1", "admin-1")
		if err != nil {
			t.Fatalf("PromoteManually() error = %v", err)
		}
		if result.Failure == nil {
			t.Fatalf("result = %+v, want insufficient-points failure", result)
		}
	})

	t.Run("reconciles before computing next", func(t *testing.T) {
		members := seedMember(1, 0)
		reconciler := &fakeReconciler{
			ReconcileMemberFunc: func(ctx context.Context, discordID sharedtypes.DiscordID) (syncservice.ReconciliationResult, error) {
				// Ground truth says the member is already a Soldier.
				if _, err := members.SetRank(ctx, discordID, 2); err != nil {
					return syncservice.ReconciliationResult{}, err
				}
				return syncservice.ReconciliationResult{Outcome: syncservice.OutcomeUpdated, DiscordID: discordID}, nil
			},
		}
		s := newTestService(members, testLadder(), &fakeRankSetter{}, reconciler)

		result, err := s.PromoteManually(ctx, "disc-1", "admin-1")
		if err != nil {
			t.Fatalf("PromoteManually() error = %v", err)
		}
		payload := result.Success.(*events.PromotionResolvedPayloadV1)
		if payload.OldRankOrder != 2 || payload.NewRankOrder != 3 {
			t.Errorf("transition = %d -> %d, want 2 -> 3 (post-reconcile)", payload.OldRankOrder, payload.NewRankOrder)
		}
	})

	t.Run("completes against the real reconciliation engine on shared locks", func(t *testing.T) {
		// The reconcile pre-step takes the member lock and releases it before
		// the promotion critical section acquires it. A regression here would
		// hang rather than fail, so the whole run sits under a deadline.
		members := seedMember(1, 50)
		ladder := testLadder()
		locks := keymutex.New()
		authority := &fakeGroupAuthority{rank: sharedtypes.GroupRank{RoleID: 100, RankNumber: 1, Name: "Recruit"}}
		reconciler := syncservice.NewSyncService(members, ladder, authority, locks, 0,
			slog.New(slog.DiscardHandler), &metrics.NoOpMetrics{}, noop.NewTracerProvider().Tracer("test"))

		s := NewPromotionService(members, ladder, &fakeRankSetter{}, reconciler, locks,
			slog.New(slog.DiscardHandler), &metrics.NoOpMetrics{}, noop.NewTracerProvider().Tracer("test"))
		s.serviceWrapper = func(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (results.OperationResult, error) {
			return op(ctx)
		}

		done := make(chan results.OperationResult, 1)
		go func() {
			result, err := s.PromoteManually(ctx, "disc-1", "admin-1")
			if err != nil {
				t.Errorf("PromoteManually() error = %v", err)
			}
			done <- result
		}()

		select {
		case result := <-done:
			payload, ok := result.Success.(*events.PromotionResolvedPayloadV1)
			if !ok {
				t.Fatalf("result.Success = %T, want *PromotionResolvedPayloadV1", result.Success)
			}
			if payload.NewRankOrder != 2 {
				t.Errorf("new rank = %d, want 2", payload.NewRankOrder)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("PromoteManually() did not finish; reconcile and commit are deadlocked on the member lock")
		}
	})

	t.Run("at ceiling is a failure result", func(t *testing.T) {
		members := seedMember(4, 0)
		s := newTestService(members, testLadder(), &fakeRankSetter{}, &fakeReconciler{})

		result, err := s.PromoteManually(ctx, "disc-1", "admin-1")
		if err != nil {
			t.Fatalf("PromoteManually() error = %v", err)
		}
		if result.Failure == nil {
			t.Fatalf("result = %+v, want failure", result)
		}
	})
}
