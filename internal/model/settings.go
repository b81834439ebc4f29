package model

import (
	"time"

	"github.com/google/uuid"
)

// AppSettings is the single runtime-editable configuration record: the upload
// endpoint for images and the Telegram notification targets. It is loaded and
// passed explicitly wherever needed, never kept as ambient global state.
type AppSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UploadURL string    `gorm:"type:text" json:"upload_url"`

	TelegramBotToken       string `gorm:"type:varchar(255)" json:"telegram_bot_token"`
	TelegramAdminChatID    string `gorm:"type:varchar(100)" json:"telegram_admin_chat_id"`
	TelegramStockmanChatID string `gorm:"type:varchar(100)" json:"telegram_stockman_chat_id"`
	TelegramEnabled        bool   `gorm:"default:false" json:"telegram_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
