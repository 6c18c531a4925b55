package syncservice

import (
	"context"
	"fmt"
	"time"

	"github.com/clanworks/clanbot/internal/attr"
)

// ReconcileAll sweeps every member. One member's failure never aborts the
// batch; only failing to list the members at all does. After each committed
// update the sweep pauses so the role projections that follow stay under the
// chat platform's rate limit.
func (s *SyncService) ReconcileAll(ctx context.Context) (*SweepReport, error) {
	ctx, span := s.tracer.Start(ctx, "ReconcileAll")
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, "ReconcileAll", "SyncService")
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, "ReconcileAll", "SyncService", time.Since(startTime))
	}()

	members, err := s.members.GetAll(ctx)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "ReconcileAll", "SyncService")
		return nil, fmt.Errorf("ReconcileAll: %w", err)
	}

	report := &SweepReport{}
	for _, member := range members {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("ReconcileAll: %w", err)
		}

		result, err := s.ReconcileMember(ctx, member.DiscordID)
		if err != nil {
			result = ReconciliationResult{
				Outcome:   OutcomeFailed,
				DiscordID: member.DiscordID,
				Reason:    err.Error(),
				Err:       err,
			}
		}

		switch result.Outcome {
		case OutcomeUpdated:
			report.Counts.Updated++
			report.Updates = append(report.Updates, result)
			if s.memberDelay > 0 {
				select {
				case <-time.After(s.memberDelay):
				case <-ctx.Done():
					return report, fmt.Errorf("ReconcileAll: %w", ctx.Err())
				}
			}
		case OutcomeInSync:
			report.Counts.InSync++
		case OutcomeSkipped:
			report.Counts.Skipped++
			s.logger.InfoContext(ctx, "Member skipped during sweep",
				attr.String("discord_id", string(member.DiscordID)),
				attr.String("reason", result.Reason),
			)
		case OutcomeFailed:
			report.Counts.Failed++
			s.logger.WarnContext(ctx, "Member failed during sweep",
				attr.String("discord_id", string(member.DiscordID)),
				attr.String("reason", result.Reason),
				attr.Error(result.Err),
			)
		}
	}

	s.logger.InfoContext(ctx, "Sweep complete",
		attr.Int("updated", report.Counts.Updated),
		attr.Int("in_sync", report.Counts.InSync),
		attr.Int("skipped", report.Counts.Skipped),
		attr.Int("failed", report.Counts.Failed),
	)
	s.metrics.RecordOperationSuccess(ctx, "ReconcileAll", "SyncService")
	return report, nil
}
