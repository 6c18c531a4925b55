// Package handlerwrapper standardizes event handlers: typed payload
// unmarshaling, tracing, logging, and fan-out of returned results.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clanworks/clanbot/internal/attr"
	"github.com/clanworks/clanbot/internal/metrics"
)

// Result is one outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped adapts a pure transformation handler — typed payload
// in, zero or more Results out — into a watermill HandlerFunc. Malformed
// payloads are logged and acked (retrying cannot fix them); handler errors
// propagate so the router nacks and redelivers.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	m metrics.Metrics,
	handler func(ctx context.Context, payload *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := attr.CorrelationIDFromMessage(msg.Context(), msg)
		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("handler", handlerName),
			attribute.String("message_uuid", msg.UUID),
		))
		defer span.End()

		m.RecordOperationAttempt(ctx, handlerName, "handler")

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Discarding malformed payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil, nil
		}

		out, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}

		msgs := make([]*message.Message, 0, len(out))
		for _, r := range out {
			body, err := json.Marshal(r.Payload)
			if err != nil {
				span.RecordError(err)
				m.RecordOperationFailure(ctx, handlerName, "handler")
				return nil, fmt.Errorf("%s: marshal result for %s: %w", handlerName, r.Topic, err)
			}

			next := message.NewMessage(watermill.NewUUID(), body)
			next.Metadata.Set("topic", r.Topic)
			middleware.SetCorrelationID(middleware.MessageCorrelationID(msg), next)
			for k, v := range r.Metadata {
				next.Metadata.Set(k, v)
			}
			msgs = append(msgs, next)
		}

		m.RecordOperationSuccess(ctx, handlerName, "handler")
		return msgs, nil
	}
}
