package service

import (
	"context"
	"fmt"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"
)

type UpdateSettingsRequest struct {
	UploadURL              *string `json:"upload_url"`
	TelegramBotToken       *string `json:"telegram_bot_token"`
	TelegramAdminChatID    *string `json:"telegram_admin_chat_id"`
	TelegramStockmanChatID *string `json:"telegram_stockman_chat_id"`
	TelegramEnabled        *bool   `json:"telegram_enabled"`
}

type SettingsService interface {
	Get(ctx context.Context) (*model.AppSettings, error)
	Update(ctx context.Context, actor Actor, req UpdateSettingsRequest) (*model.AppSettings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	auditRepo    repository.AuditRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository, auditRepo repository.AuditRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo, auditRepo: auditRepo}
}

func (s *settingsService) Get(ctx context.Context) (*model.AppSettings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, actor Actor, req UpdateSettingsRequest) (*model.AppSettings, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if req.UploadURL != nil {
		settings.UploadURL = *req.UploadURL
	}
	if req.TelegramBotToken != nil {
		settings.TelegramBotToken = *req.TelegramBotToken
	}
	if req.TelegramAdminChatID != nil {
		settings.TelegramAdminChatID = *req.TelegramAdminChatID
	}
	if req.TelegramStockmanChatID != nil {
		settings.TelegramStockmanChatID = *req.TelegramStockmanChatID
	}
	if req.TelegramEnabled != nil {
		settings.TelegramEnabled = *req.TelegramEnabled
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	_ = writeAuditEntry(ctx, s.auditRepo, actor, model.ActionUpdateSettings, settings.ID.String(), "app settings", map[string]interface{}{
		"telegram_enabled": settings.TelegramEnabled,
	})
	return settings, nil
}
