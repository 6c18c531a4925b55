package syncservice

import (
	"context"
	"sync"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/roblox"
)

// fakeAuthority is a programmable group authority keyed by username.
type fakeAuthority struct {
	mu    sync.Mutex
	ranks map[sharedtypes.RobloxUsername]sharedtypes.GroupRank

	GetMemberRankFunc func(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.GroupRank, error)
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{ranks: make(map[sharedtypes.RobloxUsername]sharedtypes.GroupRank)}
}

func (f *fakeAuthority) setRank(username sharedtypes.RobloxUsername, rank sharedtypes.GroupRank) {
	f.mu.Lock()
	f.ranks[username] = rank
	f.mu.Unlock()
}

func (f *fakeAuthority) GetMemberRank(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.GroupRank, error) {
	if f.GetMemberRankFunc != nil {
		return f.GetMemberRankFunc(ctx, username)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rank, ok := f.ranks[username]
	if !ok {
		return nil, roblox.ErrMemberNotFound
	}
	out := rank
	return &out, nil
}

var _ GroupAuthority = (*fakeAuthority)(nil)
