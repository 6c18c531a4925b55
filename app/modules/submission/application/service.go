// Package submissionservice implements event submission intake and review.
package submissionservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	submissiondb "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories"
	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/metrics"
	"github.com/clanworks/clanbot/internal/results"
)

// Points awarded per participant are bounded to keep a single event from
// skipping whole rank tiers.
const (
	MinPoints = 1
	MaxPoints = 8
)

// SubmissionService implements the Service interface.
type SubmissionService struct {
	repo    submissiondb.Repository
	parser  *when.Parser
	now     func() time.Time
	logger  *slog.Logger
	metrics metrics.Metrics
	tracer  trace.Tracer

	// serviceWrapper is swapped out by tests to bypass telemetry.
	serviceWrapper func(ctx context.Context, operationName string, op operationFunc) (results.OperationResult, error)
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	repo submissiondb.Repository,
	logger *slog.Logger,
	m metrics.Metrics,
	tracer trace.Tracer,
) *SubmissionService {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)

	s := &SubmissionService{
		repo:    repo,
		parser:  parser,
		now:     time.Now,
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
func (s *SubmissionService) withTelemetry(ctx context.Context, operationName string, op operationFunc) (result results.OperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "SubmissionService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "SubmissionService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "SubmissionService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "SubmissionService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.Failure != nil {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", result.Failure),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "SubmissionService")
	return result, nil
}
