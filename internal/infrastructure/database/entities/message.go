package entities

import (
	"time"

	"gorm.io/datatypes"

	"pathwise-server/services/guidance-api/internal/domain/conversation"
)

// Message stores one entry of a conversation's append-only log.
type Message struct {
	ID             uint           `gorm:"primaryKey"`
	ConversationID uint           `gorm:"index:idx_message_conversation_created;not null"`
	PublicID       string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	Role           string         `gorm:"type:varchar(32);not null"`
	Content        string         `gorm:"type:text;not null"`
	AgentID        *string        `gorm:"type:varchar(64)"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
	Sequence       int            `gorm:"index"`
	CreatedAt      time.Time      `gorm:"index:idx_message_conversation_created;autoCreateTime"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model
func (m *Message) EtoD() *conversation.Message {
	return &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Role:           conversation.MessageRole(m.Role),
		Content:        m.Content,
		AgentID:        m.AgentID,
		Metadata:       []byte(m.Metadata),
		Sequence:       m.Sequence,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from domain model
func NewSchemaMessage(m *conversation.Message) *Message {
	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		PublicID:       m.PublicID,
		Role:           string(m.Role),
		Content:        m.Content,
		AgentID:        m.AgentID,
		Metadata:       datatypes.JSON(m.Metadata),
		Sequence:       m.Sequence,
		CreatedAt:      m.CreatedAt,
	}
}
