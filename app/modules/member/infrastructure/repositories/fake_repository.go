package memberdb

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// FakeRepository is an in-memory member store used by service tests across
// modules. Default behavior implements the real store semantics, including
// the points reset on SetRank; Func fields override per test. Rank-order
// validation on SetRank is delegated to KnownOrders when set.
type FakeRepository struct {
	mu      sync.Mutex
	trace   []string
	members map[sharedtypes.DiscordID]*sharedtypes.Member
	order   []sharedtypes.DiscordID

	// KnownOrders, when non-nil, makes SetRank reject orders absent from it.
	KnownOrders map[sharedtypes.RankOrder]bool

	CreateFunc               func(ctx context.Context, member *sharedtypes.Member) error
	UpdateRobloxUsernameFunc func(ctx context.Context, discordID sharedtypes.DiscordID, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error)
	GetByDiscordIDFunc       func(ctx context.Context, discordID sharedtypes.DiscordID) (*sharedtypes.Member, error)
	GetByRobloxUsernameFunc  func(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error)
	GetAllFunc               func(ctx context.Context) ([]sharedtypes.Member, error)
	ListTopByTotalPointsFunc func(ctx context.Context, limit int) ([]sharedtypes.Member, error)
	AddPointsFunc            func(ctx context.Context, discordID sharedtypes.DiscordID, delta int) (*sharedtypes.Member, error)
	SetRankFunc              func(ctx context.Context, discordID sharedtypes.DiscordID, newOrder sharedtypes.RankOrder) (*sharedtypes.Member, error)
}

// NewFakeRepository returns an empty fake store.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		members: make(map[sharedtypes.DiscordID]*sharedtypes.Member),
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// Put seeds a member directly, bypassing duplicate checks. Test setup only.
func (f *FakeRepository) Put(member sharedtypes.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[member.DiscordID]; !ok {
		f.order = append(f.order, member.DiscordID)
	}
	m := member
	f.members[member.DiscordID] = &m
}

func (f *FakeRepository) Create(ctx context.Context, member *sharedtypes.Member) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, member)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.members {
		if id != member.DiscordID && strings.EqualFold(string(existing.RobloxUsername), string(member.RobloxUsername)) {
			return ErrDuplicateIdentity
		}
	}
	m := *member
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if _, ok := f.members[m.DiscordID]; !ok {
		f.order = append(f.order, m.DiscordID)
	}
	f.members[m.DiscordID] = &m
	return nil
}

func (f *FakeRepository) UpdateRobloxUsername(ctx context.Context, discordID sharedtypes.DiscordID, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error) {
	f.record("UpdateRobloxUsername")
	if f.UpdateRobloxUsernameFunc != nil {
		return f.UpdateRobloxUsernameFunc(ctx, discordID, username)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.members {
		if id != discordID && strings.EqualFold(string(existing.RobloxUsername), string(username)) {
			return nil, ErrDuplicateIdentity
		}
	}
	m, ok := f.members[discordID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	m.RobloxUsername = username
	out := *m
	return &out, nil
}

func (f *FakeRepository) GetByDiscordID(ctx context.Context, discordID sharedtypes.DiscordID) (*sharedtypes.Member, error) {
	f.record("GetByDiscordID")
	if f.GetByDiscordIDFunc != nil {
		return f.GetByDiscordIDFunc(ctx, discordID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[discordID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	out := *m
	return &out, nil
}

func (f *FakeRepository) GetByRobloxUsername(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.Member, error) {
	f.record("GetByRobloxUsername")
	if f.GetByRobloxUsernameFunc != nil {
		return f.GetByRobloxUsernameFunc(ctx, username)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if strings.EqualFold(string(m.RobloxUsername), string(username)) {
			out := *m
			return &out, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (f *FakeRepository) GetAll(ctx context.Context) ([]sharedtypes.Member, error) {
	f.record("GetAll")
	if f.GetAllFunc != nil {
		return f.GetAllFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sharedtypes.Member, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.members[id])
	}
	return out, nil
}

func (f *FakeRepository) ListTopByTotalPoints(ctx context.Context, limit int) ([]sharedtypes.Member, error) {
	f.record("ListTopByTotalPoints")
	if f.ListTopByTotalPointsFunc != nil {
		return f.ListTopByTotalPointsFunc(ctx, limit)
	}
	all, _ := f.GetAll(ctx)
	sort.SliceStable(all, func(i, j int) bool { return all[i].TotalPoints > all[j].TotalPoints })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *FakeRepository) AddPoints(ctx context.Context, discordID sharedtypes.DiscordID, delta int) (*sharedtypes.Member, error) {
	f.record("AddPoints")
	if f.AddPointsFunc != nil {
		return f.AddPointsFunc(ctx, discordID, delta)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[discordID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	m.Points += delta
	if delta > 0 {
		m.TotalPoints += delta
	}
	out := *m
	return &out, nil
}

func (f *FakeRepository) SetRank(ctx context.Context, discordID sharedtypes.DiscordID, newOrder sharedtypes.RankOrder) (*sharedtypes.Member, error) {
	f.record("SetRank")
	if f.SetRankFunc != nil {
		return f.SetRankFunc(ctx, discordID, newOrder)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.KnownOrders != nil && !f.KnownOrders[newOrder] {
		return nil, ErrUnknownRank
	}
	m, ok := f.members[discordID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	m.CurrentRankOrder = newOrder
	m.Points = 0
	out := *m
	return &out, nil
}

var _ Repository = (*FakeRepository)(nil)
