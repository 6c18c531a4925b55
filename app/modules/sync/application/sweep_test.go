package syncservice

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/roblox"
)

func TestReconcileAll_AggregatesAndIsolatesFailures(t *testing.T) {
	members := memberdb.NewFakeRepository()
	members.Put(sharedtypes.Member{DiscordID: "disc-updated", RobloxUsername: "Moves", CurrentRankOrder: 1})
	members.Put(sharedtypes.Member{DiscordID: "disc-insync", RobloxUsername: "Stays", CurrentRankOrder: 2})
	members.Put(sharedtypes.Member{DiscordID: "disc-unmapped", RobloxUsername: "Stranger", CurrentRankOrder: 1})
	members.Put(sharedtypes.Member{DiscordID: "disc-broken", RobloxUsername: "Flaky", CurrentRankOrder: 1})

	authority := newFakeAuthority()
	authority.setRank("Moves", sharedtypes.GroupRank{RoleID: 200, RankNumber: 2, Name: "Soldier"})
	authority.setRank("Stays", sharedtypes.GroupRank{RoleID: 200, RankNumber: 2, Name: "Soldier"})
	authority.setRank("Stranger", sharedtypes.GroupRank{RoleID: 999, RankNumber: 99, Name: "Warlord"})
	authority.GetMemberRankFunc = func(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.GroupRank, error) {
		if username == "Flaky" {
			return nil, roblox.ErrUnavailable
		}
		authority.mu.Lock()
		defer authority.mu.Unlock()
		rank, ok := authority.ranks[username]
		if !ok {
			return nil, roblox.ErrMemberNotFound
		}
		out := rank
		return &out, nil
	}

	s := newTestService(members, testLadder(), authority)
	report, err := s.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("ReconcileAll() error = %v", err)
	}

	if report.Counts.Updated != 1 {
		t.Errorf("updated = %d, want 1", report.Counts.Updated)
	}
	if report.Counts.InSync != 1 {
		t.Errorf("inSync = %d, want 1", report.Counts.InSync)
	}
	if report.Counts.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", report.Counts.Skipped)
	}
	if report.Counts.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Counts.Failed)
	}
	if len(report.Updates) != 1 || report.Updates[0].DiscordID != "disc-updated" {
		t.Errorf("updates = %+v, want the one committed update", report.Updates)
	}
}

func TestReconcileAll_LargeRoster(t *testing.T) {
	faker := gofakeit.New(1)
	members := memberdb.NewFakeRepository()
	authority := newFakeAuthority()

	const roster = 50
	for i := range roster {
		username := sharedtypes.RobloxUsername(fmt.Sprintf("%s%d", faker.Username(), i))
		members.Put(sharedtypes.Member{
			DiscordID:        sharedtypes.DiscordID(fmt.Sprintf("disc-%d", i)),
			RobloxUsername:   username,
			CurrentRankOrder: 1,
		})
		// Half the roster drifted ahead on the group side.
		if i%2 == 0 {
			authority.setRank(username, sharedtypes.GroupRank{RoleID: 200, RankNumber: 2, Name: "Soldier"})
		} else {
			authority.setRank(username, sharedtypes.GroupRank{RoleID: 100, RankNumber: 1, Name: "Recruit"})
		}
	}

	s := newTestService(members, testLadder(), authority)
	report, err := s.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("ReconcileAll() error = %v", err)
	}
	if report.Counts.Updated != roster/2 || report.Counts.InSync != roster/2 {
		t.Errorf("counts = %+v, want %d updated and %d in sync", report.Counts, roster/2, roster/2)
	}
	if len(report.Updates) != roster/2 {
		t.Errorf("len(updates) = %d, want %d", len(report.Updates), roster/2)
	}
}

func TestReconcileAll_SecondSweepAllInSync(t *testing.T) {
	members := memberdb.NewFakeRepository()
	members.Put(sharedtypes.Member{DiscordID: "disc-1", RobloxUsername: "One", CurrentRankOrder: 1})
	members.Put(sharedtypes.Member{DiscordID: "disc-2", RobloxUsername: "Two", CurrentRankOrder: 1})

	authority := newFakeAuthority()
	authority.setRank("One", sharedtypes.GroupRank{RoleID: 200, RankNumber: 2, Name: "Soldier"})
	authority.setRank("Two", sharedtypes.GroupRank{RoleID: 200, RankNumber: 2, Name: "Soldier"})

	s := newTestService(members, testLadder(), authority)
	if _, err := s.ReconcileAll(context.Background()); err != nil {
		t.Fatalf("first ReconcileAll() error = %v", err)
	}

	report, err := s.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("second ReconcileAll() error = %v", err)
	}
	if report.Counts.InSync != 2 || report.Counts.Updated != 0 {
		t.Errorf("second sweep counts = %+v, want all in sync", report.Counts)
	}
}
