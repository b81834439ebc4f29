package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement reasons.
const (
	MovementReserve        = "RESERVE"         // draft add-item
	MovementRelease        = "RELEASE"         // draft remove-item
	MovementDiscard        = "DISCARD"         // session abandoned, net delta reversed
	MovementDeleteReversal = "DELETE_REVERSAL" // PENDING invoice deleted, reservation returned
)

// StockMovement is the append-only stock ledger. Every change to
// Product.Stock writes exactly one row here inside the same transaction,
// tagged with the draft or invoice that caused it.
type StockMovement struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Delta      int        `gorm:"type:int;not null" json:"delta"` // signed change applied to stock
	StockAfter int        `gorm:"type:int;not null" json:"stock_after"`
	Reason     string     `gorm:"type:varchar(20);not null" json:"reason"`
	DraftID    *uuid.UUID `gorm:"type:uuid;index" json:"draft_id,omitempty"`
	InvoiceID  *uuid.UUID `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
