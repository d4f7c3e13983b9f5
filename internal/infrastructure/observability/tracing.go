package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "pathwise-server/guidance-api"
)

// GetTracer returns the tracer for the guidance-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// TurnAttributes returns common attributes for chat turn spans.
func TurnAttributes(conversationID, userID, agentID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("turn.conversation_id", conversationID),
		attribute.String("turn.user_id", userID),
		attribute.String("turn.agent_id", agentID),
	}
}

// StartTurnSpan starts a new span covering the upstream call and persistence
// of one chat turn.
func StartTurnSpan(ctx context.Context, conversationID, userID, agentID string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "chat.turn",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(TurnAttributes(conversationID, userID, agentID)...),
	)
	return ctx, span
}

// RecordTurnError marks the span failed with the given error.
func RecordTurnError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
