package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.AppSettings, error)
	Update(ctx context.Context, settings *model.AppSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.AppSettings, error) {
	var settings model.AppSettings
	if err := GetDB(ctx, r.db).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.AppSettings) error {
	return GetDB(ctx, r.db).Save(settings).Error
}
