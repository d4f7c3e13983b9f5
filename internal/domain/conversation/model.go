package conversation

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle flag of a conversation.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Valid reports whether the status is one the API accepts.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived
}

// DefaultTitle is used when a conversation is created without one.
const DefaultTitle = "New conversation"

// DefaultType is the conversation type assigned when the caller omits it.
const DefaultType = "career_guidance"

// MessageRole indicates who authored a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one the API accepts.
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation is a user-owned chat thread. Ownership is exact equality on
// UserID; everything else is mutable metadata.
type Conversation struct {
	ID           uint              `json:"-"`
	PublicID     string            `json:"id"`
	UserID       string            `json:"user_id"`
	Title        string            `json:"title"`
	Description  *string           `json:"description,omitempty"`
	Type         string            `json:"conversation_type"`
	Status       Status            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Messages     []Message         `json:"messages,omitempty"`
	LastActivity time.Time         `json:"last_activity"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Message is one entry of the append-only conversation log. Order within a
// conversation is created_at ascending, ties broken by insertion order.
type Message struct {
	ID             uint            `json:"-"`
	PublicID       string          `json:"id"`
	ConversationID uint            `json:"-"`
	Role           MessageRole     `json:"role"`
	Content        string          `json:"content"`
	AgentID        *string         `json:"agent_id,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	Sequence       int             `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewConversation builds a conversation with defaults applied. The public ID
// is generated by the caller, never by the store.
func NewConversation(publicID, userID, title string, description *string, convType string) *Conversation {
	now := time.Now()
	if title == "" {
		title = DefaultTitle
	}
	if convType == "" {
		convType = DefaultType
	}
	return &Conversation{
		PublicID:     publicID,
		UserID:       userID,
		Title:        title,
		Description:  description,
		Type:         convType,
		Status:       StatusActive,
		Metadata:     make(map[string]string),
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewMessage builds a message for the given conversation.
func NewMessage(publicID string, conversationID uint, role MessageRole, content string, agentID *string, sequence int) *Message {
	return &Message{
		PublicID:       publicID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		AgentID:        agentID,
		Sequence:       sequence,
		CreatedAt:      time.Now(),
	}
}

// Stats summarises a user's conversation activity for the dashboard.
type Stats struct {
	TotalConversations  int64      `json:"total_conversations"`
	ActiveConversations int64      `json:"active_conversations"`
	TotalMessages       int64      `json:"total_messages"`
	LastActivity        *time.Time `json:"last_activity,omitempty"`
}
