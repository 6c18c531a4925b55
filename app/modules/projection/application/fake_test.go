package projectionservice

import (
	"context"
	"fmt"
	"sync"
)

// fakeRoles is an in-memory guild role surface. Default behavior implements
// real role semantics over the seeded maps; Func fields override per test.
type fakeRoles struct {
	mu      sync.Mutex
	roles  map[string]string          // name -> id
	held   map[string]map[string]bool // userID -> roleID -> held
	nextID int
	calls  []string

	FindRoleFunc        func(ctx context.Context, name string) (string, error)
	EnsureRoleFunc      func(ctx context.Context, name string) (string, error)
	MemberHoldsRoleFunc func(ctx context.Context, userID, roleID string) (bool, error)
	AddRoleFunc         func(ctx context.Context, userID, roleID string) error
	RemoveRoleFunc      func(ctx context.Context, userID, roleID string) error
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		roles: make(map[string]string),
		held:  make(map[string]map[string]bool),
	}
}

func (f *fakeRoles) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeRoles) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// seedRole registers a role and returns its ID.
func (f *fakeRoles) seedRole(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("role-%d", f.nextID)
	f.roles[name] = id
	return id
}

func (f *fakeRoles) grant(userID, roleID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[userID] == nil {
		f.held[userID] = make(map[string]bool)
	}
	f.held[userID][roleID] = true
}

func (f *fakeRoles) holds(userID, roleID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held[userID][roleID]
}

func (f *fakeRoles) FindRole(ctx context.Context, name string) (string, error) {
	f.record("FindRole")
	if f.FindRoleFunc != nil {
		return f.FindRoleFunc(ctx, name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[name], nil
}

func (f *fakeRoles) EnsureRole(ctx context.Context, name string) (string, error) {
	f.record("EnsureRole")
	if f.EnsureRoleFunc != nil {
		return f.EnsureRoleFunc(ctx, name)
	}
	f.mu.Lock()
	if id, ok := f.roles[name]; ok {
		f.mu.Unlock()
		return id, nil
	}
	f.mu.Unlock()
	return f.seedRole(name), nil
}

func (f *fakeRoles) MemberHoldsRole(ctx context.Context, userID, roleID string) (bool, error) {
	f.record("MemberHoldsRole")
	if f.MemberHoldsRoleFunc != nil {
		return f.MemberHoldsRoleFunc(ctx, userID, roleID)
	}
	return f.holds(userID, roleID), nil
}

func (f *fakeRoles) AddRole(ctx context.Context, userID, roleID string) error {
	f.record("AddRole")
	if f.AddRoleFunc != nil {
		return f.AddRoleFunc(ctx, userID, roleID)
	}
	f.grant(userID, roleID)
	return nil
}

func (f *fakeRoles) RemoveRole(ctx context.Context, userID, roleID string) error {
	f.record("RemoveRole")
	if f.RemoveRoleFunc != nil {
		return f.RemoveRoleFunc(ctx, userID, roleID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held[userID], roleID)
	return nil
}

var _ RoleChat = (*fakeRoles)(nil)
