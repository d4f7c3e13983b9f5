package responses

import (
	"encoding/json"
	"time"

	"pathwise-server/services/guidance-api/internal/domain/chat"
	"pathwise-server/services/guidance-api/internal/domain/conversation"
)

// ConversationPayload is returned to clients for conversation resources.
type ConversationPayload struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Title        string            `json:"title"`
	Description  *string           `json:"description,omitempty"`
	Type         string            `json:"conversation_type"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastActivity time.Time         `json:"last_activity"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// MessagePayload is returned to clients for message resources.
type MessagePayload struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	AgentID   *string         `json:"agent_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ConversationDetail bundles a conversation with its ordered message log.
type ConversationDetail struct {
	Conversation ConversationPayload `json:"conversation"`
	Messages     []MessagePayload    `json:"messages"`
}

// ChatPayload is returned from the chat endpoint: the backend reply augmented
// with conversation identity and the processing agent.
type ChatPayload struct {
	Response       string          `json:"response"`
	Citations      json.RawMessage `json:"citations,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	ConversationID string          `json:"conversation_id"`
	ProcessedBy    string          `json:"processed_by"`
	Persisted      bool            `json:"persisted"`
}

// FromConversation maps the domain conversation to DTO.
func FromConversation(c *conversation.Conversation) ConversationPayload {
	return ConversationPayload{
		ID:           c.PublicID,
		UserID:       c.UserID,
		Title:        c.Title,
		Description:  c.Description,
		Type:         c.Type,
		Status:       string(c.Status),
		Metadata:     c.Metadata,
		LastActivity: c.LastActivity,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromConversations maps a list of conversations.
func FromConversations(convs []*conversation.Conversation) []ConversationPayload {
	payloads := make([]ConversationPayload, 0, len(convs))
	for _, c := range convs {
		payloads = append(payloads, FromConversation(c))
	}
	return payloads
}

// FromMessage maps the domain message to DTO.
func FromMessage(m *conversation.Message) MessagePayload {
	return MessagePayload{
		ID:        m.PublicID,
		Role:      string(m.Role),
		Content:   m.Content,
		AgentID:   m.AgentID,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}

// FromMessages maps a list of messages preserving order.
func FromMessages(msgs []conversation.Message) []MessagePayload {
	payloads := make([]MessagePayload, 0, len(msgs))
	for i := range msgs {
		payloads = append(payloads, FromMessage(&msgs[i]))
	}
	return payloads
}

// FromTurnResult maps the orchestrator outcome to the chat DTO.
func FromTurnResult(r *chat.TurnResult) ChatPayload {
	return ChatPayload{
		Response:       r.Reply.Response,
		Citations:      r.Reply.Citations,
		Metadata:       r.Reply.Metadata,
		ConversationID: r.ConversationID,
		ProcessedBy:    r.ProcessedBy,
		Persisted:      r.Persisted,
	}
}
