package repository

import (
	"context"
	"time"

	"warehouse-backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	List(ctx context.Context, limit int) ([]model.ChatMessage, error)
	DeleteAll(ctx context.Context) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	return GetDB(ctx, r.db).Create(message).Error
}

func (r *chatRepository) List(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	q := GetDB(ctx, r.db).Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) DeleteAll(ctx context.Context) error {
	return GetDB(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ChatMessage{}).Error
}

func (r *chatRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Where("created_at < ?", cutoff).Delete(&model.ChatMessage{})
	return res.RowsAffected, res.Error
}
