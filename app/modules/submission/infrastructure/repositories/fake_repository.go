package submissiondb

import (
	"context"
	"sync"
	"time"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
)

// FakeRepository is an in-memory submission store used by service tests.
// Default behavior implements the real store semantics, including one-shot
// resolution; Func fields override per test.
type FakeRepository struct {
	mu     sync.Mutex
	trace  []string
	rows   map[int64]*EventSubmission
	nextID int64

	CreateFunc      func(ctx context.Context, submission *EventSubmission) error
	GetByIDFunc     func(ctx context.Context, id int64) (*EventSubmission, error)
	ListPendingFunc func(ctx context.Context) ([]EventSubmission, error)
	ResolveFunc     func(ctx context.Context, id int64, status SubmissionStatus, reviewerID sharedtypes.DiscordID) (*EventSubmission, error)
}

// NewFakeRepository returns an empty fake store.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{rows: make(map[int64]*EventSubmission)}
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

func (f *FakeRepository) Create(ctx context.Context, submission *EventSubmission) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, submission)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	submission.ID = f.nextID
	submission.Status = StatusPending
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now()
	}
	row := *submission
	f.rows[row.ID] = &row
	return nil
}

func (f *FakeRepository) GetByID(ctx context.Context, id int64) (*EventSubmission, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	out := *row
	return &out, nil
}

func (f *FakeRepository) ListPending(ctx context.Context) ([]EventSubmission, error) {
	f.record("ListPending")
	if f.ListPendingFunc != nil {
		return f.ListPendingFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []EventSubmission
	for id := int64(1); id <= f.nextID; id++ {
		if row, ok := f.rows[id]; ok && row.Status == StatusPending {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *FakeRepository) Resolve(ctx context.Context, id int64, status SubmissionStatus, reviewerID sharedtypes.DiscordID) (*EventSubmission, error) {
	f.record("Resolve")
	if f.ResolveFunc != nil {
		return f.ResolveFunc(ctx, id, status, reviewerID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	if row.Status != StatusPending {
		return nil, ErrSubmissionResolved
	}
	now := time.Now()
	row.Status = status
	row.ReviewedBy = reviewerID
	row.ReviewedAt = &now
	out := *row
	return &out, nil
}

var _ Repository = (*FakeRepository)(nil)
