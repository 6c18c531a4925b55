package synchandlers

import (
	"context"
	"errors"

	"github.com/clanworks/clanbot/app/events"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
)

// HandleSweepRequested handles the RankSyncSweepRequested event. It emits one
// RankUpdated event per committed update plus a summary for the operator
// channel.
func (h *SyncHandlers) HandleSweepRequested(ctx context.Context, payload *events.RankSyncSweepRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	report, err := h.service.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]handlerwrapper.Result, 0, len(report.Updates)+1)
	for _, update := range report.Updates {
		results = append(results, resultEvents(update)...)
	}
	results = append(results, handlerwrapper.Result{
		Topic: events.RankSyncCompletedV1,
		Payload: &events.RankSyncCompletedPayloadV1{
			SweepID: payload.SweepID,
			Updated: report.Counts.Updated,
			InSync:  report.Counts.InSync,
			Skipped: report.Counts.Skipped,
			Failed:  report.Counts.Failed,
		},
	})
	return results, nil
}
