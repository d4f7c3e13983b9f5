package conversation

import (
	"context"

	"gorm.io/gorm"

	domain "pathwise-server/services/guidance-api/internal/domain/conversation"
	"pathwise-server/services/guidance-api/internal/infrastructure/database/entities"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

// MessageRepository persists the append-only message log.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs the message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

var _ domain.MessageRepository = (*MessageRepository)(nil)

// Insert appends a single message.
func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaMessage(msg)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert message",
			err,
			"insert-message-error",
		)
	}
	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListByConversationID returns the conversation's messages ordered by
// creation time, ties broken by insertion order.
func (r *MessageRepository) ListByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"list-messages-error",
		)
	}

	messages := make([]domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, *rows[i].EtoD())
	}
	return messages, nil
}

// CountByConversationID counts messages in one conversation.
func (r *MessageRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count messages",
			err,
			"count-messages-error",
		)
	}
	return count, nil
}

// CountByUserID counts messages across all of the user's conversations.
func (r *MessageRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count user messages",
			err,
			"count-user-messages-error",
		)
	}
	return count, nil
}
