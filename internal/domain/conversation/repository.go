package conversation

import (
	"context"
	"time"
)

// UpdateFields carries the mutable conversation metadata for partial updates.
// Nil fields are left untouched.
type UpdateFields struct {
	Title       *string
	Description *string
	Status      *Status
}

// Repository exposes CRUD operations for conversation metadata.
type Repository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	ListByUserID(ctx context.Context, userID string) ([]*Conversation, error)
	Update(ctx context.Context, id uint, fields UpdateFields) error
	TouchActivity(ctx context.Context, id uint, at time.Time) error
	CountByUserID(ctx context.Context, userID string, status *Status) (int64, error)
}

// MessageRepository persists the append-only message log. There are no
// update or delete operations on messages.
type MessageRepository interface {
	Insert(ctx context.Context, message *Message) error
	ListByConversationID(ctx context.Context, conversationID uint) ([]Message, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}
