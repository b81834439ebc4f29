package model

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceType constants, the direction of stock flow.
const (
	InvoiceTypeIncoming = "INCOMING"
	InvoiceTypeOutgoing = "OUTGOING"
)

// InvoiceStatus constants. PENDING invoices await warehouse confirmation;
// SHIPPED is terminal.
const (
	InvoiceStatusPending = "PENDING"
	InvoiceStatusShipped = "SHIPPED"
)

// Invoice is a warehouse delivery note. Customer fields are a snapshot taken
// at commit time, not a live reference. The stock effect of its items is
// applied while the draft is built; confirmation only flips the status.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DisplayID string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"display_id"` // HVL-<ts>, assigned at commit, stable across edits
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	Status    string    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	CustomerID       *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	CustomerName     string     `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone    string     `gorm:"type:varchar(50)" json:"customer_phone"`
	CustomerAddress  string     `gorm:"type:text" json:"customer_address"`
	CustomerLocation string     `gorm:"type:text" json:"customer_location,omitempty"`

	SellerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	SellerName string    `gorm:"type:varchar(255);not null" json:"seller_name"`

	// Creation timestamp, display-formatted and frozen; edits do not touch it.
	Date string `gorm:"type:varchar(20);not null" json:"date"`
	Time string `gorm:"type:varchar(10);not null" json:"time"`

	Items       []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Description string        `gorm:"type:text" json:"description,omitempty"`

	// Optional delivery override, used for OUTGOING invoices.
	IsAlternativeAddress   bool   `gorm:"default:false" json:"is_alternative_address"`
	RecipientName          string `gorm:"type:varchar(255)" json:"recipient_name,omitempty"`
	RecipientPhone         string `gorm:"type:varchar(50)" json:"recipient_phone,omitempty"`
	AlternativeLocationURL string `gorm:"type:text" json:"alternative_location_url,omitempty"`

	ShipmentImages []string `gorm:"serializer:json" json:"shipment_images,omitempty"` // 0–3, attached at confirmation

	IsEdited         bool `gorm:"default:false" json:"is_edited"`
	IsAccountingDone bool `gorm:"default:false" json:"is_accounting_done"`

	ConfirmedByName string     `gorm:"type:varchar(255)" json:"confirmed_by_name,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is a line item owned by its invoice. Product name and image are
// snapshots taken when the item was added.
type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int       `gorm:"type:int;not null" json:"position"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int       `gorm:"type:int;not null" json:"quantity"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
}
