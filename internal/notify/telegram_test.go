package notify

import (
	"testing"

	"warehouse-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFormatShipmentConfirmedUsesCustomerName(t *testing.T) {
	invoice := &model.Invoice{
		DisplayID:       "HVL-1756440000000",
		Type:            model.InvoiceTypeOutgoing,
		CustomerName:    "Acme Ltd",
		SellerName:      "Sam Seller",
		ConfirmedByName: "Wes Warehouse",
		Items: []model.InvoiceItem{
			{ProductName: "Widget", Quantity: 4},
		},
	}

	msg := formatShipmentConfirmed(invoice)
	assert.Contains(t, msg, "Recipient: Acme Ltd")
	assert.Contains(t, msg, "Widget × 4")
}

func TestFormatShipmentConfirmedUsesAlternativeRecipient(t *testing.T) {
	invoice := &model.Invoice{
		DisplayID:            "HVL-1756440000000",
		Type:                 model.InvoiceTypeOutgoing,
		CustomerName:         "Acme Ltd",
		IsAlternativeAddress: true,
		RecipientName:        "X",
		Items: []model.InvoiceItem{
			{ProductName: "Widget", Quantity: 4},
		},
	}

	msg := formatShipmentConfirmed(invoice)
	assert.Contains(t, msg, "Recipient: X")
	assert.NotContains(t, msg, "Recipient: Acme Ltd")
}

func TestFormatInvoiceCreatedEscapesHTML(t *testing.T) {
	invoice := &model.Invoice{
		DisplayID:    "HVL-1756440000000",
		Type:         model.InvoiceTypeIncoming,
		SellerName:   "Sam <Seller>",
		CustomerName: "A&B Co",
		Items: []model.InvoiceItem{
			{ProductName: "Rod <10mm>", Quantity: 2},
		},
	}

	msg := formatInvoiceCreated(invoice)
	assert.Contains(t, msg, "Sam &lt;Seller&gt;")
	assert.Contains(t, msg, "A&amp;B Co")
	assert.Contains(t, msg, "Rod &lt;10mm&gt;")
}
