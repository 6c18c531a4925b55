package promotionservice

import (
	"context"
	"sync"

	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// fakeRankSetter records authority rank pushes.
type fakeRankSetter struct {
	mu    sync.Mutex
	calls []int64

	SetMemberRankFunc func(ctx context.Context, username sharedtypes.RobloxUsername, rankRef int64) error
}

func (f *fakeRankSetter) SetMemberRank(ctx context.Context, username sharedtypes.RobloxUsername, rankRef int64) error {
	f.mu.Lock()
	f.calls = append(f.calls, rankRef)
	f.mu.Unlock()
	if f.SetMemberRankFunc != nil {
		return f.SetMemberRankFunc(ctx, username, rankRef)
	}
	return nil
}

func (f *fakeRankSetter) pushedRefs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, len(f.calls))
	copy(out, f.calls)
	return out
}

var _ RankSetter = (*fakeRankSetter)(nil)

// fakeReconciler returns a canned reconciliation result.
type fakeReconciler struct {
	result syncservice.ReconciliationResult
	err    error

	ReconcileMemberFunc func(ctx context.Context, discordID sharedtypes.DiscordID) (syncservice.ReconciliationResult, error)
}

func (f *fakeReconciler) ReconcileMember(ctx context.Context, discordID sharedtypes.DiscordID) (syncservice.ReconciliationResult, error) {
	if f.ReconcileMemberFunc != nil {
		return f.ReconcileMemberFunc(ctx, discordID)
	}
	return f.result, f.err
}

var _ Reconciler = (*fakeReconciler)(nil)

// fakeGroupAuthority answers rank lookups when a real reconciliation engine
// backs the promotion service.
type fakeGroupAuthority struct {
	rank sharedtypes.GroupRank
}

func (f *fakeGroupAuthority) GetMemberRank(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.GroupRank, error) {
	r := f.rank
	return &r, nil
}

var _ syncservice.GroupAuthority = (*fakeGroupAuthority)(nil)
