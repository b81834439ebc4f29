package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a read-only input to invoicing: invoices copy a snapshot of its
// fields at commit time, so later edits never retroactively change documents.
type Customer struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null;index" json:"name"`
	Phone       string         `gorm:"type:varchar(50)" json:"phone"`
	Address     string         `gorm:"type:text" json:"address"`
	LocationURL string         `gorm:"type:text" json:"location_url,omitempty"` // map-service link to coordinates
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
