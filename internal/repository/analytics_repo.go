package repository

import (
	"context"
	"fmt"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsRepository aggregates invoices for the dashboard and performance
// report. A non-nil sellerID restricts every query to invoices created by
// that seller.
type AnalyticsRepository interface {
	StatusCounts(ctx context.Context, sellerID *uuid.UUID) (model.StatusCounts, error)
	MonthlyShippedCounts(ctx context.Context, sellerID *uuid.UUID) ([]model.MonthlyCount, error)
	CustomerShipmentStats(ctx context.Context, sellerID *uuid.UUID) ([]model.CustomerShipmentRow, error)
	CustomerProductTotals(ctx context.Context, sellerID *uuid.UUID) ([]model.CustomerProductRow, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) invoices(ctx context.Context, sellerID *uuid.UUID) *gorm.DB {
	q := GetDB(ctx, r.db).Table("invoices")
	if sellerID != nil {
		q = q.Where("invoices.seller_id = ?", *sellerID)
	}
	return q
}

func (r *analyticsRepository) StatusCounts(ctx context.Context, sellerID *uuid.UUID) (model.StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int
	}
	if err := r.invoices(ctx, sellerID).
		Select("invoices.status, COUNT(*) as count").
		Group("invoices.status").
		Scan(&rows).Error; err != nil {
		return model.StatusCounts{}, fmt.Errorf("failed to count invoices by status: %w", err)
	}

	var counts model.StatusCounts
	for _, row := range rows {
		switch row.Status {
		case model.InvoiceStatusPending:
			counts.Pending = row.Count
		case model.InvoiceStatusShipped:
			counts.Shipped = row.Count
		}
	}
	return counts, nil
}

func (r *analyticsRepository) MonthlyShippedCounts(ctx context.Context, sellerID *uuid.UUID) ([]model.MonthlyCount, error) {
	var rows []model.MonthlyCount
	if err := r.invoices(ctx, sellerID).
		Select("to_char(invoices.created_at, 'YYYY-MM') as month, COUNT(*) as count").
		Where("invoices.status = ?", model.InvoiceStatusShipped).
		Group("month").
		Order("month asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count shipments per month: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) CustomerShipmentStats(ctx context.Context, sellerID *uuid.UUID) ([]model.CustomerShipmentRow, error) {
	var rows []model.CustomerShipmentRow
	if err := r.invoices(ctx, sellerID).
		Select("invoices.customer_name, COUNT(*) as invoice_count, MIN(invoices.created_at) as first_at, MAX(invoices.created_at) as last_at").
		Where("invoices.status = ?", model.InvoiceStatusShipped).
		Group("invoices.customer_name").
		Order("invoice_count desc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate customer shipments: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) CustomerProductTotals(ctx context.Context, sellerID *uuid.UUID) ([]model.CustomerProductRow, error) {
	q := GetDB(ctx, r.db).Table("invoice_items").
		Select("invoices.customer_name, invoice_items.product_name, SUM(invoice_items.quantity) as total_quantity").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.status = ?", model.InvoiceStatusShipped)
	if sellerID != nil {
		q = q.Where("invoices.seller_id = ?", *sellerID)
	}

	var rows []model.CustomerProductRow
	if err := q.
		Group("invoices.customer_name, invoice_items.product_name").
		Order("total_quantity desc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate product totals: %w", err)
	}
	return rows, nil
}
