package webhook

import (
	"context"

	"pathwise-server/services/guidance-api/internal/domain/agent"
)

// Service handles webhook notifications for chat turn events. Delivery is
// best-effort; a failed notification never affects the turn outcome.
type Service interface {
	// NotifyTurnCompleted sends a webhook notification when a turn completes.
	NotifyTurnCompleted(ctx context.Context, conversationID string, reply *agent.TurnReply) error

	// NotifyTurnFailed sends a webhook notification when the upstream call fails.
	NotifyTurnFailed(ctx context.Context, conversationID string, errorCode string, errorMessage string) error
}

// ErrorDetails contains machine readable error info.
type ErrorDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TurnPayload is the structure sent to webhook URLs.
type TurnPayload struct {
	DeliveryID     string           `json:"delivery_id"`
	Event          string           `json:"event"` // "turn.completed" or "turn.failed"
	ConversationID string           `json:"conversation_id"`
	Reply          *agent.TurnReply `json:"reply,omitempty"`
	Error          *ErrorDetails    `json:"error,omitempty"`
	OccurredAt     string           `json:"occurred_at"`
}
