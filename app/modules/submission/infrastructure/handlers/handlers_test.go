package submissionhandlers

import (
	"context"
	"errors"
	"testing"

	"github.com/clanworks/clanbot/app/events"
	submissionservice "github.com/clanworks/clanbot/app/modules/submission/application"
	submissiondb "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/results"
)

type fakeService struct {
	submitResult  results.OperationResult
	submitErr     error
	resolveResult results.OperationResult
	resolveErr    error

	lastOp       string
	lastID       int64
	lastReviewer sharedtypes.DiscordID
}

func (f *fakeService) Submit(ctx context.Context, request *events.SubmissionCreateRequestedPayloadV1) (results.OperationResult, error) {
	f.lastOp = "Submit"
	return f.submitResult, f.submitErr
}

func (f *fakeService) ApproveSubmission(ctx context.Context, id int64, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	f.lastOp, f.lastID, f.lastReviewer = "ApproveSubmission", id, reviewerID
	return f.resolveResult, f.resolveErr
}

func (f *fakeService) DenySubmission(ctx context.Context, id int64, reviewerID sharedtypes.DiscordID) (results.OperationResult, error) {
	f.lastOp, f.lastID, f.lastReviewer = "DenySubmission", id, reviewerID
	return f.resolveResult, f.resolveErr
}

var _ submissionservice.Service = (*fakeService)(nil)

func TestHandleCreateRequested(t *testing.T) {
	ctx := context.Background()

	t.Run("stored submission emits created", func(t *testing.T) {
		service := &fakeService{submitResult: results.OperationResult{
			Success: &events.SubmissionCreatedPayloadV1{SubmissionID: 7, SubmitterID: "disc-1"},
		}}
		h := NewSubmissionHandlers(service)

		got, err := h.HandleCreateRequested(ctx, &events.SubmissionCreateRequestedPayloadV1{SubmitterID: "disc-1"})
		if err != nil {
			t.Fatalf("HandleCreateRequested() error = %v", err)
		}
		if len(got) != 1 || got[0].Topic != events.SubmissionCreatedV1 {
			t.Fatalf("results = %v, want one SubmissionCreated event", got)
		}
	})

	t.Run("rejected submission emits create-failed", func(t *testing.T) {
		service := &fakeService{submitResult: results.OperationResult{
			Failure: &events.SubmissionCreateFailedPayloadV1{SubmitterID: "disc-1", Reason: "points must be between 1 and 8, got 9"},
		}}
		h := NewSubmissionHandlers(service)

		got, err := h.HandleCreateRequested(ctx, &events.SubmissionCreateRequestedPayloadV1{SubmitterID: "disc-1"})
		if err != nil {
			t.Fatalf("HandleCreateRequested() error = %v", err)
		}
		if len(got) != 1 || got[0].Topic != events.SubmissionCreateFailedV1 {
			t.Fatalf("results = %v, want one SubmissionCreateFailed event", got)
		}
	})

	t.Run("nil payload", func(t *testing.T) {
		h := NewSubmissionHandlers(&fakeService{})
		if _, err := h.HandleCreateRequested(ctx, nil); err == nil {
			t.Fatal("HandleCreateRequested(nil) error = nil, want error")
		}
	})
}

func TestHandleApproveRequested(t *testing.T) {
	ctx := context.Background()

	t.Run("approval fans out one award per participant", func(t *testing.T) {
		service := &fakeService{resolveResult: results.OperationResult{
			Success: &submissiondb.EventSubmission{
				ID:           7,
				EventName:    "Raid Night",
				Points:       4,
				Participants: []sharedtypes.DiscordID{"disc-1", "disc-2", "disc-3"},
				Status:       submissiondb.StatusApproved,
			},
		}}
		h := NewSubmissionHandlers(service)

		got, err := h.HandleApproveRequested(ctx, &events.SubmissionApproveRequestedPayloadV1{SubmissionID: 7, ReviewerID: "admin-1"})
		if err != nil {
			t.Fatalf("HandleApproveRequested() error = %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("got %d results, want 1 approval + 3 awards", len(got))
		}
		if got[0].Topic != events.SubmissionApprovedV1 {
			t.Errorf("first topic = %q, want approved", got[0].Topic)
		}
		for _, r := range got[1:] {
			if r.Topic != events.MemberPointsAwardRequestedV1 {
				t.Fatalf("topic = %q, want award request", r.Topic)
			}
			award := r.Payload.(*events.MemberPointsAwardRequestedPayloadV1)
			if award.Delta != 4 {
				t.Errorf("delta = %d, want 4", award.Delta)
			}
		}
	})

	t.Run("already resolved emits failure only", func(t *testing.T) {
		service := &fakeService{resolveResult: results.OperationResult{
			Failure: &events.SubmissionResolveFailedPayloadV1{SubmissionID: 7, Reason: "submission already resolved"},
		}}
		h := NewSubmissionHandlers(service)

		got, err := h.HandleApproveRequested(ctx, &events.SubmissionApproveRequestedPayloadV1{SubmissionID: 7, ReviewerID: "admin-1"})
		if err != nil {
			t.Fatalf("HandleApproveRequested() error = %v", err)
		}
		if len(got) != 1 || got[0].Topic != events.SubmissionResolveFailedV1 {
			t.Fatalf("results = %v, want one resolve-failed event", got)
		}
	})

	t.Run("service error propagates for redelivery", func(t *testing.T) {
		service := &fakeService{resolveErr: errors.New("db down")}
		h := NewSubmissionHandlers(service)

		if _, err := h.HandleApproveRequested(ctx, &events.SubmissionApproveRequestedPayloadV1{SubmissionID: 7}); err == nil {
			t.Fatal("HandleApproveRequested() error = nil, want error")
		}
	})
}

func TestHandleDenyRequested(t *testing.T) {
	service := &fakeService{resolveResult: results.OperationResult{
		Success: &events.SubmissionDeniedPayloadV1{SubmissionID: 7, ReviewerID: "admin-1"},
	}}
	h := NewSubmissionHandlers(service)

	got, err := h.HandleDenyRequested(context.Background(), &events.SubmissionDenyRequestedPayloadV1{SubmissionID: 7, ReviewerID: "admin-1"})
	if err != nil {
		t.Fatalf("HandleDenyRequested() error = %v", err)
	}
	want := []handlerwrapper.Result{{Topic: events.SubmissionDeniedV1}}
	if len(got) != len(want) || got[0].Topic != want[0].Topic {
		t.Fatalf("results = %v, want one SubmissionDenied event", got)
	}
	if service.lastID != 7 || service.lastReviewer != "admin-1" {
		t.Errorf("service call = (%d, %s), want (7, admin-1)", service.lastID, service.lastReviewer)
	}
}
