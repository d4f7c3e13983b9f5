package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"pathwise-server/services/guidance-api/internal/domain/conversation"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID     string              `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID       string              `gorm:"type:varchar(64);index:idx_conversation_user_status;index:idx_conversation_user_activity;not null"`
	Title        string              `gorm:"type:varchar(256);not null"`
	Description  *string             `gorm:"type:text"`
	Type         string              `gorm:"type:varchar(50);not null;default:'career_guidance'"`
	Status       conversation.Status `gorm:"type:varchar(20);index:idx_conversation_user_status;not null;default:'active'"`
	Metadata     JSONMap             `gorm:"type:jsonb"`
	LastActivity time.Time           `gorm:"index:idx_conversation_user_activity;not null"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// ===============================================
// JSON Types for GORM
// ===============================================

// JSONMap is a custom type for map[string]string stored as JSON
type JSONMap map[string]string

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// ===============================================
// Conversion Functions
// ===============================================

// EtoD converts database entity to domain model
func (c *Conversation) EtoD() *conversation.Conversation {
	metadata := make(map[string]string)
	if c.Metadata != nil {
		metadata = c.Metadata
	}

	messages := make([]conversation.Message, len(c.Messages))
	for i, msg := range c.Messages {
		messages[i] = *msg.EtoD()
	}

	return &conversation.Conversation{
		ID:           c.ID,
		PublicID:     c.PublicID,
		UserID:       c.UserID,
		Title:        c.Title,
		Description:  c.Description,
		Type:         c.Type,
		Status:       c.Status,
		Metadata:     metadata,
		Messages:     messages,
		LastActivity: c.LastActivity,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:           c.ID,
		PublicID:     c.PublicID,
		UserID:       c.UserID,
		Title:        c.Title,
		Description:  c.Description,
		Type:         c.Type,
		Status:       c.Status,
		Metadata:     c.Metadata,
		LastActivity: c.LastActivity,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
