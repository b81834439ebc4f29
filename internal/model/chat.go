package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a message in the shared team chat. Messages older than the
// retention window are swept by a scheduled job.
type ChatMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	SenderName string    `gorm:"type:varchar(255);not null" json:"sender_name"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
