package ladderdb

import (
	"context"
	"sort"
	"strings"
	"sync"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// FakeRepository is an in-memory ladder used by service tests across modules.
// Methods can be overridden per test via the Func fields; the default
// behavior implements the real catalog semantics over the seeded slice.
type FakeRepository struct {
	mu    sync.Mutex
	trace []string
	defs  []sharedtypes.RankDefinition

	SeedFunc          func(ctx context.Context, defs []sharedtypes.RankDefinition) error
	AllRanksFunc      func(ctx context.Context) ([]sharedtypes.RankDefinition, error)
	ByOrderFunc       func(ctx context.Context, order sharedtypes.RankOrder) (*sharedtypes.RankDefinition, error)
	NextRankFunc      func(ctx context.Context, currentOrder sharedtypes.RankOrder, includeAdminOnly bool) (*sharedtypes.RankDefinition, error)
	ByExternalRefFunc func(ctx context.Context, primaryRef, secondaryRef int64) (*sharedtypes.RankDefinition, error)
}

// NewFakeRepository returns a fake pre-seeded with defs.
func NewFakeRepository(defs ...sharedtypes.RankDefinition) *FakeRepository {
	f := &FakeRepository{}
	f.defs = append(f.defs, defs...)
	f.sortDefs()
	return f
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

func (f *FakeRepository) sortDefs() {
	sort.Slice(f.defs, func(i, j int) bool { return f.defs[i].Order < f.defs[j].Order })
}

func (f *FakeRepository) Seed(ctx context.Context, defs []sharedtypes.RankDefinition) error {
	f.record("Seed")
	if f.SeedFunc != nil {
		return f.SeedFunc(ctx, defs)
	}
	f.mu.Lock()
	f.defs = append([]sharedtypes.RankDefinition(nil), defs...)
	f.mu.Unlock()
	f.sortDefs()
	return nil
}

func (f *FakeRepository) AllRanks(ctx context.Context) ([]sharedtypes.RankDefinition, error) {
	f.record("AllRanks")
	if f.AllRanksFunc != nil {
		return f.AllRanksFunc(ctx)
	}
	return append([]sharedtypes.RankDefinition(nil), f.defs...), nil
}

func (f *FakeRepository) ByOrder(ctx context.Context, order sharedtypes.RankOrder) (*sharedtypes.RankDefinition, error) {
	f.record("ByOrder")
	if f.ByOrderFunc != nil {
		return f.ByOrderFunc(ctx, order)
	}
	for i := range f.defs {
		if f.defs[i].Order == order {
			def := f.defs[i]
			return &def, nil
		}
	}
	return nil, ErrRankNotFound
}

func (f *FakeRepository) NextRank(ctx context.Context, currentOrder sharedtypes.RankOrder, includeAdminOnly bool) (*sharedtypes.RankDefinition, error) {
	f.record("NextRank")
	if f.NextRankFunc != nil {
		return f.NextRankFunc(ctx, currentOrder, includeAdminOnly)
	}
	for i := range f.defs {
		if f.defs[i].Order > currentOrder && (includeAdminOnly || !f.defs[i].AdminOnly) {
			def := f.defs[i]
			return &def, nil
		}
	}
	return nil, nil
}

func (f *FakeRepository) ByExternalRef(ctx context.Context, primaryRef, secondaryRef int64) (*sharedtypes.RankDefinition, error) {
	f.record("ByExternalRef")
	if f.ByExternalRefFunc != nil {
		return f.ByExternalRefFunc(ctx, primaryRef, secondaryRef)
	}
	for _, ref := range []int64{primaryRef, secondaryRef} {
		for i := range f.defs {
			if f.defs[i].RobloxRankRef == ref {
				def := f.defs[i]
				return &def, nil
			}
		}
	}
	return nil, nil
}

// FindByName is a test convenience, not part of the Repository interface.
func (f *FakeRepository) FindByName(name string) *sharedtypes.RankDefinition {
	for i := range f.defs {
		if strings.EqualFold(f.defs[i].Name, name) {
			def := f.defs[i]
			return &def
		}
	}
	return nil
}

var _ Repository = (*FakeRepository)(nil)
