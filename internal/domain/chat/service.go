package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/domain/conversation"
	"pathwise-server/services/guidance-api/internal/infrastructure/metrics"
	"pathwise-server/services/guidance-api/internal/infrastructure/observability"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
	"pathwise-server/services/guidance-api/internal/webhook"
)

// DefaultProcessor identifies the backend's coordinator endpoint in replies
// that do not name a specific agent.
const DefaultProcessor = "coordinator"

// TurnParams carries one chat turn from an authenticated caller.
type TurnParams struct {
	UserID         string
	ConversationID string
	Message        string
	AgentID        *string
	Metadata       map[string]string
}

// TurnResult is the two-phase outcome of a turn: the backend reply that was
// already committed to the caller, and whether the secondary store write
// succeeded. Persisted is false only when the upstream call succeeded but the
// log write did not.
type TurnResult struct {
	Reply          *agent.TurnReply
	ConversationID string
	ProcessedBy    string
	Persisted      bool
}

// Service orchestrates chat turns against the agent backend.
type Service interface {
	SendTurn(ctx context.Context, params TurnParams) (*TurnResult, error)
}

// ServiceImpl composes the identity-verified conversation store and the agent
// backend client. Each invocation is stateless; two concurrent turns on the
// same conversation are not serialized, the store's append order and
// last-writer-wins on last_activity are the only ordering guarantees.
type ServiceImpl struct {
	conversations conversation.Service
	agents        agent.Client
	webhooks      webhook.Service
	log           zerolog.Logger
}

// NewService wires dependencies.
func NewService(conversations conversation.Service, agents agent.Client, webhooks webhook.Service, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		conversations: conversations,
		agents:        agents,
		webhooks:      webhooks,
		log:           log.With().Str("component", "chat-service").Logger(),
	}
}

var _ Service = (*ServiceImpl)(nil)

// SendTurn runs one turn: validate, verify ownership, proxy to the backend,
// then best-effort persist. A message is never recorded unless the backend
// call succeeded; conversely a successful reply is returned to the caller
// even when persistence fails, because the reply was already produced by an
// external paid call.
func (s *ServiceImpl) SendTurn(ctx context.Context, params TurnParams) (*TurnResult, error) {
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message must not be empty", nil, "5e6f7a8b-9c0d-4e1f-2a3b-4c5d6e7f8a9b")
	}

	conv, err := s.conversations.GetOwned(ctx, params.ConversationID, params.UserID)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartTurnSpan(ctx, conv.PublicID, params.UserID, processedBy(params.AgentID, nil))
	defer span.End()

	reply, err := s.agents.SendTurn(ctx, agent.TurnRequest{
		Message:        message,
		ConversationID: conv.PublicID,
		UserID:         params.UserID,
		AgentID:        params.AgentID,
		Metadata:       params.Metadata,
	})
	if err != nil {
		observability.RecordTurnError(span, err)
		s.notifyFailed(ctx, conv.PublicID, err)
		return nil, err
	}

	result := &TurnResult{
		Reply:          reply,
		ConversationID: conv.PublicID,
		ProcessedBy:    processedBy(params.AgentID, reply),
		Persisted:      true,
	}

	record := conversation.TurnRecord{
		UserContent:      message,
		AssistantContent: reply.Response,
		AgentID:          assistantAgentID(result.ProcessedBy),
		ReplyMetadata:    reply.Metadata,
	}
	if err := s.conversations.RecordTurn(ctx, conv, record); err != nil {
		// The reply already cost an upstream call; a storage hiccup must not
		// discard it. Surface the miss through the Persisted flag instead.
		result.Persisted = false
		metrics.RecordTurnPersistFailure()
		s.log.Error().Err(err).
			Str("conversation_id", conv.PublicID).
			Str("user_id", params.UserID).
			Msg("persist chat turn failed, returning unpersisted reply")
	}

	if s.webhooks != nil {
		if err := s.webhooks.NotifyTurnCompleted(ctx, conv.PublicID, reply); err != nil {
			s.log.Warn().Err(err).Str("conversation_id", conv.PublicID).Msg("turn webhook notification failed")
		}
	}

	return result, nil
}

func (s *ServiceImpl) notifyFailed(ctx context.Context, conversationID string, failure error) {
	if s.webhooks == nil {
		return
	}
	if err := s.webhooks.NotifyTurnFailed(ctx, conversationID, "turn_failed", failure.Error()); err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("turn webhook notification failed")
	}
}

func processedBy(requested *string, reply *agent.TurnReply) string {
	if reply != nil && reply.AgentID != "" {
		return reply.AgentID
	}
	if requested != nil && *requested != "" {
		return *requested
	}
	return DefaultProcessor
}

func assistantAgentID(processedBy string) *string {
	if processedBy == "" || processedBy == DefaultProcessor {
		return nil
	}
	return &processedBy
}
