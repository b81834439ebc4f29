package pdf

// Delivery note rendering with go-pdf/fpdf. A5 portrait, one page per
// invoice: header with the display id and status, customer or override
// recipient block, the item table and an optional description footer.

import (
	"bytes"
	"fmt"

	"warehouse-backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// RenderDeliveryNote renders the invoice as a PDF document and returns the
// raw bytes, ready to stream to the client.
func RenderDeliveryNote(invoice *model.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// Header
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Delivery Note", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, invoice.DisplayID, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	status := invoice.Status
	if invoice.IsEdited {
		status += " (edited)"
	}
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s  ·  %s %s  ·  %s", invoice.Type, invoice.Date, invoice.Time, status), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// Recipient block
	name := invoice.CustomerName
	phone := invoice.CustomerPhone
	address := invoice.CustomerAddress
	if invoice.IsAlternativeAddress {
		if invoice.RecipientName != "" {
			name = invoice.RecipientName
		}
		if invoice.RecipientPhone != "" {
			phone = invoice.RecipientPhone
		}
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Recipient", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, name, "", 1, "L", false, 0, "")
	if phone != "" {
		pdf.CellFormat(contentW, 5, phone, "", 1, "L", false, 0, "")
	}
	if address != "" && !invoice.IsAlternativeAddress {
		pdf.MultiCell(contentW, 5, address, "", "L", false)
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Seller: "+invoice.SellerName, "", 1, "L", false, 0, "")
	if invoice.ConfirmedByName != "" {
		confirmed := "Confirmed by: " + invoice.ConfirmedByName
		if invoice.ConfirmedAt != nil {
			confirmed += "  " + invoice.ConfirmedAt.Format("02/01/2006 15:04")
		}
		pdf.CellFormat(contentW, 5, confirmed, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Item table
	colPos := contentW * 0.08
	colName := contentW * 0.68
	colQty := contentW * 0.24

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colPos, 6, "#", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colName, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 6, "Quantity", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range invoice.Items {
		name := item.ProductName
		if len(name) > 48 {
			name = name[:47] + "…"
		}
		pdf.CellFormat(colPos, 6, fmt.Sprintf("%d", item.Position), "", 0, "L", false, 0, "")
		pdf.CellFormat(colName, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", item.Quantity), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	if invoice.Description != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 5, invoice.Description, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render delivery note: %w", err)
	}
	return buf.Bytes(), nil
}
