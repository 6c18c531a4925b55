package projectionservice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/discord"
	"github.com/clanworks/clanbot/internal/metrics"
)

func testLadder() *ladderdb.FakeRepository {
	return ladderdb.NewFakeRepository(
		sharedtypes.RankDefinition{Order: 1, Name: "Recruit", RobloxRankRef: 100},
		sharedtypes.RankDefinition{Order: 2, Name: "Soldier", PointsRequired: 50, RobloxRankRef: 200},
	)
}

func newTestService(ladder ladderdb.Repository, roles RoleChat) *ProjectionService {
	s := NewProjectionService(ladder, roles, 1000, 2, time.Millisecond,
		slog.New(slog.DiscardHandler), &metrics.NoOpMetrics{}, noop.NewTracerProvider().Tracer("test"))
	s.serviceWrapper = func(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (ProjectionResult, error) {
		return op(ctx)
	}
	return s
}

func TestProject_SwapsRoles(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	oldID := roles.seedRole("Recruit")
	roles.grant("disc-1", oldID)
	s := newTestService(testLadder(), roles)

	result, err := s.Project(ctx, "disc-1", 1, 2)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Failed() {
		t.Fatalf("result = %+v, want full success", result)
	}

	if roles.holds("disc-1", oldID) {
		t.Error("old role still held")
	}
	newID, _ := roles.FindRole(ctx, "Soldier")
	if newID == "" {
		t.Fatal("new role was not created")
	}
	if !roles.holds("disc-1", newID) {
		t.Error("new role not granted")
	}
}

func TestProject_IdempotentWhenAlreadyProjected(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	newID := roles.seedRole("Soldier")
	roles.grant("disc-1", newID)
	s := newTestService(testLadder(), roles)

	result, err := s.Project(ctx, "disc-1", 1, 2)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Failed() {
		t.Fatalf("result = %+v, want full success", result)
	}
	if n := roles.callCount("AddRole"); n != 0 {
		t.Errorf("AddRole called %d times, want 0 (already held)", n)
	}
	if n := roles.callCount("RemoveRole"); n != 0 {
		t.Errorf("RemoveRole called %d times, want 0 (old role absent)", n)
	}
}

func TestProject_UnknownNewRankIsNoOp(t *testing.T) {
	roles := newFakeRoles()
	s := newTestService(testLadder(), roles)

	result, err := s.Project(context.Background(), "disc-1", 1, 99)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Failed() {
		t.Fatalf("result = %+v, want no-op success", result)
	}
	if len(roles.calls) != 0 {
		t.Errorf("role calls = %v, want none", roles.calls)
	}
}

func TestProject_RetriesThroughRateLimit(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	s := newTestService(testLadder(), roles)

	attempts := 0
	roles.AddRoleFunc = func(ctx context.Context, userID, roleID string) error {
		attempts++
		if attempts <= 2 {
			return &discord.RateLimitedError{}
		}
		roles.AddRoleFunc = nil
		return roles.AddRole(ctx, userID, roleID)
	}

	result, err := s.Project(ctx, "disc-1", 1, 2)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Failed() {
		t.Fatalf("result = %+v, want success after retries", result)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestProject_PartialFailureAfterRetryCeiling(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	roles.AddRoleFunc = func(ctx context.Context, userID, roleID string) error {
		return &discord.RateLimitedError{}
	}
	s := newTestService(testLadder(), roles)

	result, err := s.Project(ctx, "disc-1", 1, 2)
	if err != nil {
		t.Fatalf("Project() error = %v (partial failure is a result, not an error)", err)
	}
	if result.Step != StepAddNew {
		t.Errorf("result.Step = %q, want %q", result.Step, StepAddNew)
	}
	if result.Reason == "" {
		t.Error("result.Reason is empty")
	}
	// MaxRetries 2 means 3 attempts on the failing step.
	if n := roles.callCount("AddRole"); n != 3 {
		t.Errorf("AddRole attempts = %d, want 3", n)
	}
}

func TestProject_PermissionDeniedDoesNotRetry(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	calls := 0
	roles.EnsureRoleFunc = func(ctx context.Context, name string) (string, error) {
		calls++
		return "", discord.ErrPermissionDenied
	}
	s := newTestService(testLadder(), roles)

	result, err := s.Project(ctx, "disc-1", 1, 2)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Step != StepEnsureNew {
		t.Errorf("result.Step = %q, want %q", result.Step, StepEnsureNew)
	}
	if calls != 1 {
		t.Errorf("EnsureRole attempts = %d, want 1 (permanent error)", calls)
	}
}

func TestProject_RemoveFailureStopsBeforeGrant(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	oldID := roles.seedRole("Recruit")
	roles.grant("disc-1", oldID)
	roles.RemoveRoleFunc = func(ctx context.Context, userID, roleID string) error {
		return discord.ErrPermissionDenied
	}
	s := newTestService(testLadder(), roles)

	result, err := s.Project(ctx, "disc-1", 1, 2)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Step != StepRemoveOld {
		t.Errorf("result.Step = %q, want %q", result.Step, StepRemoveOld)
	}
	if n := roles.callCount("EnsureRole"); n != 0 {
		t.Errorf("EnsureRole called %d times after abandoned removal, want 0", n)
	}
}
