package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"
	ws "warehouse-backend/internal/websocket"

	"github.com/rs/zerolog"
)

// Messages older than this are purged by the periodic sweep.
const chatRetention = 10 * 24 * time.Hour

type PostMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type ChatService interface {
	Post(ctx context.Context, actor Actor, req PostMessageRequest) (*model.ChatMessage, error)
	List(ctx context.Context, limit int) ([]model.ChatMessage, error)
	Clear(ctx context.Context, actor Actor) error
	// CleanupOldMessages is run from the scheduler; it is safe to call at
	// any frequency.
	CleanupOldMessages(ctx context.Context) error
}

type chatService struct {
	chatRepo repository.ChatRepository
	hub      *ws.Hub
	log      zerolog.Logger
}

func NewChatService(chatRepo repository.ChatRepository, hub *ws.Hub, log zerolog.Logger) ChatService {
	return &chatService{chatRepo: chatRepo, hub: hub, log: log}
}

func (s *chatService) Post(ctx context.Context, actor Actor, req PostMessageRequest) (*model.ChatMessage, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}

	message := model.ChatMessage{
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Text:       text,
	}
	if err := s.chatRepo.Create(ctx, &message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if s.hub != nil {
		s.hub.Publish("chat.message", message)
	}
	return &message, nil
}

func (s *chatService) List(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	return s.chatRepo.List(ctx, limit)
}

func (s *chatService) Clear(ctx context.Context, actor Actor) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.chatRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear chat: %w", err)
	}
	if s.hub != nil {
		s.hub.Publish("chat.cleared", nil)
	}
	return nil
}

func (s *chatService) CleanupOldMessages(ctx context.Context) error {
	cutoff := time.Now().Add(-chatRetention)
	removed, err := s.chatRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge old messages: %w", err)
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("purged old chat messages")
	}
	return nil
}
