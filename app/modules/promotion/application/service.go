// Package promotionservice implements the point-threshold promotion
// evaluator and its human-approval resolution paths.
package promotionservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	syncservice "github.com/clanworks/clanbot/app/modules/sync/application"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/keymutex"
	"github.com/clanworks/clanbot/internal/metrics"
	"github.com/clanworks/clanbot/internal/results"
)

// RankSetter is the slice of the group authority promotions write to.
// Satisfied by the roblox client.
type RankSetter interface {
	SetMemberRank(ctx context.Context, username sharedtypes.RobloxUsername, rankRef int64) error
}

// Reconciler is the pre-step manual promotion runs before computing "next":
// syncing to ground truth prevents promoting from a stale snapshot.
type Reconciler interface {
	ReconcileMember(ctx context.Context, discordID sharedtypes.DiscordID) (syncservice.ReconciliationResult, error)
}

// PromotionService implements the Service interface.
type PromotionService struct {
	members    memberdb.Repository
	ladder     ladderdb.Repository
	authority  RankSetter
	reconciler Reconciler
	logger     *slog.Logger
	metrics    metrics.Metrics
	tracer     trace.Tracer

	// locks is the same per-member mutex the reconciliation engine holds, so
	// an approval cannot commit while a sweep is mid reconcile on the member.
	locks *keymutex.KeyMutex

	// serviceWrapper is swapped out by tests to bypass telemetry.
	serviceWrapper func(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (results.OperationResult, error)
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(
	members memberdb.Repository,
	ladder ladderdb.Repository,
	authority RankSetter,
	reconciler Reconciler,
	locks *keymutex.KeyMutex,
	logger *slog.Logger,
	m metrics.Metrics,
	tracer trace.Tracer,
) *PromotionService {
	s := &PromotionService{
		members:    members,
		ladder:     ladder,
		authority:  authority,
		reconciler: reconciler,
		locks:      locks,
		logger:     logger,
		metrics:    m,
		tracer:     tracer,
	}
	s.serviceWrapper = s.withTelemetry
	return s
}

type operationFunc func(ctx context.Context) (results.OperationResult, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func (s *PromotionService) withTelemetry(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (result results.OperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("discord_id", string(discordID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "PromotionService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "PromotionService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("discord_id", string(discordID)),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "PromotionService")
			span.RecordError(err)
			result = results.OperationResult{}
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
		s.metrics.RecordOperationFailure(ctx, operationName, "PromotionService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.Failure != nil {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("discord_id", string(discordID)),
			attr.Any("failure_payload", result.Failure),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "PromotionService")
	return result, nil
}
