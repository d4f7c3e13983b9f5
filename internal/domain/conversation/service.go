package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pathwise-server/services/guidance-api/internal/utils/idgen"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

const publicIDLength = 24

// CreateParams carries the input for creating a conversation.
type CreateParams struct {
	UserID      string
	Title       string
	Description *string
	Type        string
}

// AppendMessageParams carries the input for appending a single message.
type AppendMessageParams struct {
	UserID         string
	ConversationID string
	Role           MessageRole
	Content        string
	AgentID        *string
}

// TurnRecord carries both halves of a completed chat turn for persistence.
type TurnRecord struct {
	UserContent      string
	AssistantContent string
	AgentID          *string
	ReplyMetadata    json.RawMessage
}

// Service owns conversation CRUD and the ownership check every operation
// goes through. A conversation is visible only to the user that created it;
// absent and foreign-owned conversations are indistinguishable to callers.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Conversation, error)
	List(ctx context.Context, userID string) ([]*Conversation, error)
	GetOwned(ctx context.Context, publicID, userID string) (*Conversation, error)
	GetWithMessages(ctx context.Context, publicID, userID string) (*Conversation, []Message, error)
	ListMessages(ctx context.Context, publicID, userID string) ([]Message, error)
	AppendMessage(ctx context.Context, params AppendMessageParams) (*Message, error)
	RecordTurn(ctx context.Context, conv *Conversation, record TurnRecord) error
	Update(ctx context.Context, publicID, userID string, fields UpdateFields) (*Conversation, error)
	Stats(ctx context.Context, userID string) (*Stats, error)
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	conversations Repository
	messages      MessageRepository
	log           zerolog.Logger
}

// NewService wires dependencies.
func NewService(conversations Repository, messages MessageRepository, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		conversations: conversations,
		messages:      messages,
		log:           log.With().Str("component", "conversation-service").Logger(),
	}
}

var _ Service = (*ServiceImpl)(nil)

// Create inserts a new conversation owned by params.UserID.
func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*Conversation, error) {
	publicID, err := idgen.GenerateSecureID("conv", publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate conversation id", err, "7c1d2a90-4f3b-4e61-9a8d-5b0c6e2f1a3d")
	}

	conv := NewConversation(publicID, params.UserID, strings.TrimSpace(params.Title), params.Description, params.Type)
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// List returns the user's conversations, most recent activity first.
func (s *ServiceImpl) List(ctx context.Context, userID string) ([]*Conversation, error) {
	return s.conversations.ListByUserID(ctx, userID)
}

// GetOwned fetches the conversation and verifies ownership by exact equality
// on UserID. A conversation owned by another user answers the same NOT_FOUND
// as one that does not exist, so existence never leaks.
func (s *ServiceImpl) GetOwned(ctx context.Context, publicID, userID string) (*Conversation, error) {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", publicID), nil, "9e4f5a6b-7c8d-4e9f-a0b1-c2d3e4f5a6b7")
	}
	return conv, nil
}

// GetWithMessages fetches an owned conversation together with its message
// log using a single ownership check.
func (s *ServiceImpl) GetWithMessages(ctx context.Context, publicID, userID string) (*Conversation, []Message, error) {
	conv, err := s.GetOwned(ctx, publicID, userID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messages.ListByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, nil, err
	}
	return conv, messages, nil
}

// ListMessages returns the conversation's log ordered by creation time.
func (s *ServiceImpl) ListMessages(ctx context.Context, publicID, userID string) ([]Message, error) {
	conv, err := s.GetOwned(ctx, publicID, userID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByConversationID(ctx, conv.ID)
}

// AppendMessage validates and appends a single message to an owned conversation.
func (s *ServiceImpl) AppendMessage(ctx context.Context, params AppendMessageParams) (*Message, error) {
	if !params.Role.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"role must be user or assistant", nil, "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d")
	}
	if strings.TrimSpace(params.Content) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"content must not be empty", nil, "2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e")
	}

	conv, err := s.GetOwned(ctx, params.ConversationID, params.UserID)
	if err != nil {
		return nil, err
	}

	msg, err := s.newMessage(ctx, conv.ID, params.Role, params.Content, params.AgentID, nil)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.conversations.TouchActivity(ctx, conv.ID, msg.CreatedAt); err != nil {
		s.log.Error().Err(err).Str("conversation_id", conv.PublicID).Msg("refresh conversation activity failed")
	}
	return msg, nil
}

// RecordTurn appends the user and assistant halves of a completed chat turn
// and refreshes the conversation's activity timestamps. Ownership must have
// been verified by the caller; the turn orchestrator treats a failure here as
// non-fatal.
func (s *ServiceImpl) RecordTurn(ctx context.Context, conv *Conversation, record TurnRecord) error {
	userMsg, err := s.newMessage(ctx, conv.ID, RoleUser, record.UserContent, nil, nil)
	if err != nil {
		return err
	}
	if err := s.messages.Insert(ctx, userMsg); err != nil {
		return err
	}

	assistantMsg, err := s.newMessage(ctx, conv.ID, RoleAssistant, record.AssistantContent, record.AgentID, record.ReplyMetadata)
	if err != nil {
		return err
	}
	assistantMsg.Sequence = userMsg.Sequence + 1
	if err := s.messages.Insert(ctx, assistantMsg); err != nil {
		return err
	}

	return s.conversations.TouchActivity(ctx, conv.ID, time.Now())
}

// Update applies partial metadata changes to an owned conversation.
func (s *ServiceImpl) Update(ctx context.Context, publicID, userID string, fields UpdateFields) (*Conversation, error) {
	if fields.Status != nil && !fields.Status.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"status must be active or archived", nil, "3c4d5e6f-7a8b-4c9d-0e1f-2a3b4c5d6e7f")
	}

	conv, err := s.GetOwned(ctx, publicID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.Update(ctx, conv.ID, fields); err != nil {
		return nil, err
	}
	return s.conversations.FindByPublicID(ctx, publicID)
}

// Stats aggregates the user's conversation activity for the dashboard.
func (s *ServiceImpl) Stats(ctx context.Context, userID string) (*Stats, error) {
	total, err := s.conversations.CountByUserID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	active := StatusActive
	activeCount, err := s.conversations.CountByUserID(ctx, userID, &active)
	if err != nil {
		return nil, err
	}

	messageCount, err := s.messages.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalConversations:  total,
		ActiveConversations: activeCount,
		TotalMessages:       messageCount,
	}

	convs, err := s.conversations.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(convs) > 0 {
		stats.LastActivity = &convs[0].LastActivity
	}
	return stats, nil
}

func (s *ServiceImpl) newMessage(ctx context.Context, conversationID uint, role MessageRole, content string, agentID *string, metadata json.RawMessage) (*Message, error) {
	publicID, err := idgen.GenerateSecureID("msg", publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate message id", err, "4d5e6f7a-8b9c-4d0e-1f2a-3b4c5d6e7f8a")
	}

	count, err := s.messages.CountByConversationID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	msg := NewMessage(publicID, conversationID, role, strings.TrimSpace(content), agentID, int(count)+1)
	msg.Metadata = metadata
	return msg, nil
}
