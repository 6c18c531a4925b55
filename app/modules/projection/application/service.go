// Package projectionservice mirrors committed rank changes onto Discord
// guild roles. Projection is best effort: the rank commit always stands and
// a failed projection is repaired by the next reconciliation sweep.
package projectionservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/metrics"
)

// RoleChat is the slice of the chat platform projections mutate. Satisfied by
// the discord role manager.
type RoleChat interface {
	FindRole(ctx context.Context, name string) (string, error)
	EnsureRole(ctx context.Context, name string) (string, error)
	MemberHoldsRole(ctx context.Context, userID, roleID string) (bool, error)
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// ProjectionService implements the Service interface.
type ProjectionService struct {
	ladder     ladderdb.Repository
	roles      RoleChat
	limiter    *rate.Limiter
	maxRetries uint64
	baseDelay  time.Duration
	logger     *slog.Logger
	metrics    metrics.Metrics
	tracer     trace.Tracer

	// serviceWrapper is swapped out by tests to bypass telemetry.
	serviceWrapper func(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (ProjectionResult, error)
}

// NewProjectionService creates a new ProjectionService. rolesPerSecond paces
// role mutations across all concurrent projections; maxRetries and baseDelay
// bound the per-step retry loop.
func NewProjectionService(
	ladder ladderdb.Repository,
	roles RoleChat,
	rolesPerSecond float64,
	maxRetries int,
	baseDelay time.Duration,
	logger *slog.Logger,
	m metrics.Metrics,
	tracer trace.Tracer,
) *ProjectionService {
	s := &ProjectionService{
		ladder:     ladder,
		roles:      roles,
		limiter:    rate.NewLimiter(rate.Limit(rolesPerSecond), 1),
		maxRetries: uint64(maxRetries),
		baseDelay:  baseDelay,
		logger:     logger,
		metrics:    m,
		tracer:     tracer,
	}
	s.serviceWrapper = s.withTelemetry
	return s
}

type operationFunc func(ctx context.Context) (ProjectionResult, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func (s *ProjectionService) withTelemetry(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (result ProjectionResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("discord_id", string(discordID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "ProjectionService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "ProjectionService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("discord_id", string(discordID)),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "ProjectionService")
			span.RecordError(err)
			result = ProjectionResult{}
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
		s.metrics.RecordOperationFailure(ctx, operationName, "ProjectionService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.Failed() {
		s.logger.WarnContext(ctx, "Projection left the role stale",
			attr.ExtractCorrelationID(ctx),
			attr.String("discord_id", string(discordID)),
			attr.String("step", result.Step),
			attr.String("reason", result.Reason),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "ProjectionService")
	return result, nil
}
