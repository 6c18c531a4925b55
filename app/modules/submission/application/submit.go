package submissionservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clanworks/clanbot/app/events"
	submissiondb "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/results"
)

// Submit validates and stores a new pending submission. OccurredAt is free
// text ("yesterday 8pm"); a submission for a future time is rejected since
// the event must already have happened.
func (s *SubmissionService) Submit(ctx context.Context, request *events.SubmissionCreateRequestedPayloadV1) (results.OperationResult, error) {
	return s.serviceWrapper(ctx, "Submit", func(ctx context.Context) (results.OperationResult, error) {
		if reason := s.validate(request); reason != "" {
			return submitFailure(request, reason), nil
		}

		var occurredAt *time.Time
		if strings.TrimSpace(request.OccurredAt) != "" {
			parsed, reason := s.parseOccurredAt(request.OccurredAt)
			if reason != "" {
				return submitFailure(request, reason), nil
			}
			occurredAt = parsed
		}

		submission := &submissiondb.EventSubmission{
			SubmitterID:  request.SubmitterID,
			EventName:    strings.TrimSpace(request.EventName),
			Points:       request.Points,
			Participants: dedupe(request.Participants),
			OccurredAt:   occurredAt,
			ImageURL:     strings.TrimSpace(request.ImageURL),
		}
		if err := s.repo.Create(ctx, submission); err != nil {
			return results.OperationResult{Error: err}, err
		}

		return results.OperationResult{
			Success: &events.SubmissionCreatedPayloadV1{
				SubmissionID: submission.ID,
				SubmitterID:  submission.SubmitterID,
				EventName:    submission.EventName,
				Points:       submission.Points,
				Participants: len(submission.Participants),
			},
		}, nil
	})
}

func (s *SubmissionService) validate(request *events.SubmissionCreateRequestedPayloadV1) string {
	if strings.TrimSpace(request.EventName) == "" {
		return "event name must not be empty"
	}
	if request.Points < MinPoints || request.Points > MaxPoints {
		return fmt.Sprintf("points must be between %d and %d, got %d", MinPoints, MaxPoints, request.Points)
	}
	if len(dedupe(request.Participants)) == 0 {
		return "at least one participant is required"
	}
	return ""
}

// parseOccurredAt turns free text into a timestamp. Returns a reason string
// on rejection.
func (s *SubmissionService) parseOccurredAt(input string) (*time.Time, string) {
	r, err := s.parser.Parse(input, s.now())
	if err != nil || r == nil {
		return nil, fmt.Sprintf("could not recognize time %q", input)
	}

	parsed := r.Time
	if parsed.After(s.now()) {
		return nil, fmt.Sprintf("event time %s is in the future", parsed.Format(time.RFC3339))
	}
	return &parsed, ""
}

func dedupe(ids []sharedtypes.DiscordID) []sharedtypes.DiscordID {
	seen := make(map[sharedtypes.DiscordID]bool, len(ids))
	out := make([]sharedtypes.DiscordID, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func submitFailure(request *events.SubmissionCreateRequestedPayloadV1, reason string) results.OperationResult {
	return results.OperationResult{
		Failure: &events.SubmissionCreateFailedPayloadV1{
			SubmitterID: request.SubmitterID,
			EventName:   request.EventName,
			Reason:      reason,
		},
	}
}
