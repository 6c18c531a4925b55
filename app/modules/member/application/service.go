// Package memberservice implements member identity, points, and standing
// operations.
package memberservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	memberdb "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories"
	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/metrics"
	"github.com/clanworks/clanbot/internal/results"
)

// IdentityResolver verifies a Roblox username against the platform before it
// is bound to a member. Satisfied by the roblox client.
type IdentityResolver interface {
	GetUserID(ctx context.Context, username sharedtypes.RobloxUsername) (int64, error)
}

// LadderReader is the slice of the ladder the member module needs for
// standing queries.
type LadderReader interface {
	ByOrder(ctx context.Context, order sharedtypes.RankOrder) (*sharedtypes.RankDefinition, error)
	NextRank(ctx context.Context, currentOrder sharedtypes.RankOrder, includeAdminOnly bool) (*sharedtypes.RankDefinition, error)
}

// MemberService implements the Service interface.
type MemberService struct {
	repo     memberdb.Repository
	ladder   LadderReader
	resolver IdentityResolver
	logger   *slog.Logger
	metrics  metrics.Metrics
	tracer   trace.Tracer

	// serviceWrapper is swapped out by tests to bypass telemetry.
	serviceWrapper func(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (results.OperationResult, error)
}

// NewMemberService creates a new MemberService.
func NewMemberService(
	repo memberdb.Repository,
	ladder LadderReader,
	resolver IdentityResolver,
	logger *slog.Logger,
	m metrics.Metrics,
	tracer trace.Tracer,
) *MemberService {
	s := &MemberService{
		repo:     repo,
		ladder:   ladder,
		resolver: resolver,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
	}
	s.serviceWrapper = s.withTelemetry
	return s
}

type operationFunc func(ctx context.Context) (results.OperationResult, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func (s *MemberService) withTelemetry(ctx context.Context, operationName string, discordID sharedtypes.DiscordID, op operationFunc) (result results.OperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("discord_id", string(discordID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "MemberService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "MemberService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("discord_id", string(discordID)),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "MemberService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "MemberService")
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

	s.metrics.RecordOperationSuccess(ctx, operationName, "MemberService")
	return result, nil
}
