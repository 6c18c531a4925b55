// Package syncservice implements the rank reconciliation engine: it brings a
// member's locally-recorded rank into agreement with the group authority.
package syncservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/keymutex"
	"github.com/clanworks/clanbot/internal/metrics"
)

// SyncService implements the Service interface.
type SyncService struct {
	members   memberdb.Repository
	ladder    ladderdb.Repository
	authority GroupAuthority
	logger    *slog.Logger
	metrics   metrics.Metrics
	tracer    trace.Tracer

	// locks serializes rank mutations per member. The instance is shared
	// with the promotion service so a sweep and an approval cannot
	// interleave a read-modify-write on the same row.
	locks *keymutex.KeyMutex

	// memberDelay paces a sweep between members whenever an update (and so a
	// role projection downstream) occurred, to stay under platform limits.
	memberDelay time.Duration

	// serviceWrapper is swapped out by tests to bypass telemetry.
	serviceWrapper func(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op reconcileFunc) (ReconciliationResult, error)
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	members memberdb.Repository,
	ladder ladderdb.Repository,
	authority GroupAuthority,
	locks *keymutex.KeyMutex,
	memberDelay time.Duration,
	logger *slog.Logger,
	m metrics.Metrics,
	tracer trace.Tracer,
) *SyncService {
	s := &SyncService{
		members:     members,
		ladder:      ladder,
		authority:   authority,
		logger:      logger,
		metrics:     m,
		tracer:      tracer,
		locks:       locks,
		memberDelay: memberDelay,
	}
	s.serviceWrapper = s.withTelemetry
	return s
}

type reconcileFunc func(ctx context.Context) (ReconciliationResult, error)

// withTelemetry wraps a reconciliation with tracing, metrics, and panic
// recovery, and records the per-outcome counter.
func (s *SyncService) withTelemetry(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op reconcileFunc) (result ReconciliationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("discord_id", string(discordID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "SyncService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "SyncService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("discord_id", string(discordID)),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "SyncService")
			span.RecordError(err)
			result = ReconciliationResult{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("discord_id", string(discordID)),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "SyncService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordReconcileOutcome(ctx, string(result.Outcome))
	s.metrics.RecordOperationSuccess(ctx, operationName, "SyncService")
	return result, nil
}
