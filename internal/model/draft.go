package model

import (
	"time"

	"github.com/google/uuid"
)

// DraftKind constants. NEW builds a fresh invoice; EDIT is a session over an
// existing PENDING invoice.
const (
	DraftKindNew  = "NEW"
	DraftKindEdit = "EDIT"
)

// InvoiceDraft is a server-owned draft/edit session. Every add/remove on it
// adjusts product stock immediately inside a transaction and records a
// StockMovement tagged with the draft id, so discarding the session can
// reverse exactly the net delta it produced.
type InvoiceDraft struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind string    `gorm:"type:varchar(10);not null" json:"kind"`
	Type string    `gorm:"type:varchar(20);not null" json:"type"`

	CreatedByID   uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedByName string    `gorm:"type:varchar(255);not null" json:"created_by_name"`

	CustomerID       *uuid.UUID `gorm:"type:uuid" json:"customer_id"`
	CustomerName     string     `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone    string     `gorm:"type:varchar(50)" json:"customer_phone"`
	CustomerAddress  string     `gorm:"type:text" json:"customer_address"`
	CustomerLocation string     `gorm:"type:text" json:"customer_location,omitempty"`

	Description string `gorm:"type:text" json:"description,omitempty"`

	IsAlternativeAddress   bool   `gorm:"default:false" json:"is_alternative_address"`
	RecipientName          string `gorm:"type:varchar(255)" json:"recipient_name,omitempty"`
	RecipientPhone         string `gorm:"type:varchar(50)" json:"recipient_phone,omitempty"`
	AlternativeLocationURL string `gorm:"type:text" json:"alternative_location_url,omitempty"`

	// Set for EDIT sessions. Unique so at most one session is open per invoice.
	BaseInvoiceID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"base_invoice_id,omitempty"`

	Items []InvoiceDraftItem `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceDraftItem mirrors InvoiceItem while the document is being built.
// CarriedOver marks items loaded from the base invoice of an edit session:
// their stock effect is already committed and must not be re-applied.
type InvoiceDraftItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DraftID     uuid.UUID `gorm:"type:uuid;not null;index" json:"draft_id"`
	Position    int       `gorm:"type:int;not null" json:"position"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int       `gorm:"type:int;not null" json:"quantity"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	CarriedOver bool      `gorm:"default:false" json:"carried_over"`
}
