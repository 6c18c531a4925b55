// Package ladderservice validates and seeds the rank ladder catalog.
package ladderservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	ladderdb "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/metrics"
	"github.com/clanworks/clanbot/internal/results"
)

// LadderService implements the Service interface.
type LadderService struct {
	repo    ladderdb.Repository
	logger  *slog.Logger
	metrics metrics.Metrics
	tracer  trace.Tracer

	// serviceWrapper is swapped out by tests to bypass telemetry.
	serviceWrapper func(ctx context.Context, operationName string, op operationFunc) (results.OperationResult, error)
}

// NewLadderService creates a new LadderService.
func NewLadderService(repo ladderdb.Repository, logger *slog.Logger, m metrics.Metrics, tracer trace.Tracer) *LadderService {
	s := &LadderService{
		repo:    repo,
		logger:  logger,
		metrics: m,
		tracer:  tracer,
	}
	s.serviceWrapper = s.withTelemetry
	return s
}

type operationFunc func(ctx context.Context) (results.OperationResult, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func (s *LadderService) withTelemetry(ctx context.Context, operationName string, op operationFunc) (result results.OperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "LadderService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "LadderService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "LadderService")
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
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "LadderService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "LadderService")
	return result, nil
}
