package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "pathwise-server/services/guidance-api/internal/domain/conversation"
	"pathwise-server/services/guidance-api/internal/infrastructure/database/entities"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches a conversation by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"9c0d1e2f-3a4b-4c5d-6e7f-8a9b0c1d2e3f",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"0d1e2f3a-4b5c-4d6e-7f8a-9b0c1d2e3f4a",
		)
	}

	return entity.EtoD(), nil
}

// ListByUserID returns the user's conversations, most recent activity first.
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_activity DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"list-by-user-error",
		)
	}

	conversations := make([]*domain.Conversation, 0, len(rows))
	for i := range rows {
		conversations = append(conversations, rows[i].EtoD())
	}
	return conversations, nil
}

// Update applies partial metadata changes. Nil fields are left untouched.
func (r *Repository) Update(ctx context.Context, id uint, fields domain.UpdateFields) error {
	updates := map[string]any{}
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Status != nil {
		updates["status"] = *fields.Status
	}
	if len(updates) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation",
			err,
			"update-conversation-error",
		)
	}
	return nil
}

// TouchActivity refreshes updated_at and last_activity after a write to the
// conversation's log. Last writer wins on concurrent turns.
func (r *Repository) TouchActivity(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_activity": at,
			"updated_at":    at,
		}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to refresh conversation activity",
			err,
			"touch-activity-error",
		)
	}
	return nil
}

// CountByUserID counts the user's conversations, optionally by status.
func (r *Repository) CountByUserID(ctx context.Context, userID string, status *domain.Status) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count conversations",
			err,
			"count-by-user-error",
		)
	}
	return count, nil
}
