package service

import (
	"context"
	"testing"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyticsRepo struct {
	counts    model.StatusCounts
	monthly   []model.MonthlyCount
	shipments []model.CustomerShipmentRow
	products  []model.CustomerProductRow

	lastSellerID *uuid.UUID
}

var _ repository.AnalyticsRepository = (*stubAnalyticsRepo)(nil)

func (r *stubAnalyticsRepo) StatusCounts(_ context.Context, sellerID *uuid.UUID) (model.StatusCounts, error) {
	r.lastSellerID = sellerID
	return r.counts, nil
}

func (r *stubAnalyticsRepo) MonthlyShippedCounts(_ context.Context, sellerID *uuid.UUID) ([]model.MonthlyCount, error) {
	r.lastSellerID = sellerID
	return r.monthly, nil
}

func (r *stubAnalyticsRepo) CustomerShipmentStats(_ context.Context, sellerID *uuid.UUID) ([]model.CustomerShipmentRow, error) {
	r.lastSellerID = sellerID
	return r.shipments, nil
}

func (r *stubAnalyticsRepo) CustomerProductTotals(_ context.Context, sellerID *uuid.UUID) ([]model.CustomerProductRow, error) {
	r.lastSellerID = sellerID
	return r.products, nil
}

func TestAnalyticsReportAssembly(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.January, d, 12, 0, 0, 0, time.UTC)
	}
	repo := &stubAnalyticsRepo{
		counts: model.StatusCounts{Pending: 2, Shipped: 5},
		monthly: []model.MonthlyCount{
			{Month: "2025-12", Count: 1},
			{Month: "2026-01", Count: 4},
		},
		shipments: []model.CustomerShipmentRow{
			{CustomerName: "Acme Ltd", InvoiceCount: 3, FirstAt: day(1), LastAt: day(21)},
			{CustomerName: "Globex", InvoiceCount: 1, FirstAt: day(5), LastAt: day(5)},
		},
		products: []model.CustomerProductRow{
			{CustomerName: "Acme Ltd", ProductName: "Widget", TotalQuantity: 12},
			{CustomerName: "Acme Ltd", ProductName: "Bolts", TotalQuantity: 4},
			{CustomerName: "Globex", ProductName: "Widget", TotalQuantity: 2},
		},
	}
	svc := NewAnalyticsService(repo)

	report, err := svc.GetReport(context.Background(), Actor{ID: uuid.New(), Name: "Ana Admin", Role: model.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalShipped)
	assert.Equal(t, model.StatusCounts{Pending: 2, Shipped: 5}, report.StatusCounts)
	assert.Equal(t, repo.monthly, report.Monthly)

	require.Len(t, report.Customers, 2)
	acme := report.Customers[0]
	assert.Equal(t, "Acme Ltd", acme.CustomerName)
	assert.Equal(t, 3, acme.InvoiceCount)
	// 20 days between first and last across two gaps.
	assert.Equal(t, 10, acme.AvgIntervalDays)
	require.Len(t, acme.Products, 2)
	assert.Equal(t, "Widget", acme.Products[0].ProductName)
	assert.Equal(t, 12, acme.Products[0].TotalQuantity)

	globex := report.Customers[1]
	assert.Equal(t, 0, globex.AvgIntervalDays)
	require.Len(t, globex.Products, 1)
}

func TestAnalyticsScopesSalesToOwnInvoices(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	svc := NewAnalyticsService(repo)
	ctx := context.Background()

	seller := Actor{ID: uuid.New(), Name: "Sam Seller", Role: model.RoleSales}
	_, err := svc.GetReport(ctx, seller)
	require.NoError(t, err)
	require.NotNil(t, repo.lastSellerID)
	assert.Equal(t, seller.ID, *repo.lastSellerID)

	_, err = svc.GetReport(ctx, Actor{ID: uuid.New(), Name: "Ana Admin", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Nil(t, repo.lastSellerID)

	_, err = svc.GetReport(ctx, Actor{ID: uuid.New(), Name: "Wes Warehouse", Role: model.RoleStockman})
	require.NoError(t, err)
	assert.Nil(t, repo.lastSellerID)
}
