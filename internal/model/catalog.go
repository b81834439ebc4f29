package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for the invoice form's product picker.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product represents an item in the warehouse. Stock already includes the
// effect of every open draft's reservations; it must never be negative at
// rest. All stock math goes through the row-locked ledger path, never a
// plain save.
type Product struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Category  string         `gorm:"type:varchar(255);index" json:"category"` // category name, free-text reference
	Stock     int            `gorm:"type:int;default:0;not null" json:"stock"`
	Unit      string         `gorm:"type:varchar(50)" json:"unit"`
	Image     string         `gorm:"type:text" json:"image,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
