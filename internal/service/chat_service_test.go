package service

import (
	"context"
	"testing"
	"time"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatRepo struct {
	messages []model.ChatMessage
}

func (r *stubChatRepo) Create(_ context.Context, message *model.ChatMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *stubChatRepo) List(_ context.Context, limit int) ([]model.ChatMessage, error) {
	if limit > 0 && limit < len(r.messages) {
		return r.messages[len(r.messages)-limit:], nil
	}
	return r.messages, nil
}

func (r *stubChatRepo) DeleteAll(_ context.Context) error {
	r.messages = nil
	return nil
}

func (r *stubChatRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	kept := r.messages[:0]
	var removed int64
	for _, m := range r.messages {
		if m.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return removed, nil
}

func TestPostMessageTrimsAndStores(t *testing.T) {
	repo := &stubChatRepo{}
	svc := NewChatService(repo, nil, zerolog.Nop())
	actor := Actor{ID: uuid.New(), Name: "Sam Seller", Role: model.RoleSales}

	msg, err := svc.Post(context.Background(), actor, PostMessageRequest{Text: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, actor.Name, msg.SenderName)

	_, err = svc.Post(context.Background(), actor, PostMessageRequest{Text: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClearRequiresAdmin(t *testing.T) {
	repo := &stubChatRepo{}
	svc := NewChatService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	sales := Actor{ID: uuid.New(), Name: "Sam Seller", Role: model.RoleSales}
	_, err := svc.Post(ctx, sales, PostMessageRequest{Text: "keep me"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Clear(ctx, sales), ErrForbidden)
	require.Len(t, repo.messages, 1)

	admin := Actor{ID: uuid.New(), Name: "Ana Admin", Role: model.RoleAdmin}
	require.NoError(t, svc.Clear(ctx, admin))
	assert.Empty(t, repo.messages)
}

func TestCleanupOldMessagesHonorsRetention(t *testing.T) {
	repo := &stubChatRepo{
		messages: []model.ChatMessage{
			{ID: uuid.New(), Text: "ancient", CreatedAt: time.Now().Add(-11 * 24 * time.Hour)},
			{ID: uuid.New(), Text: "recent", CreatedAt: time.Now().Add(-time.Hour)},
		},
	}
	svc := NewChatService(repo, nil, zerolog.Nop())

	require.NoError(t, svc.CleanupOldMessages(context.Background()))

	require.Len(t, repo.messages, 1)
	assert.Equal(t, "recent", repo.messages[0].Text)
}
