package service

import (
	"context"
	"math"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/google/uuid"
)

// AnalyticsService assembles the shipment report behind the dashboard and
// performance charts. Sales users only ever see figures for invoices they
// created; admins and warehouse staff see everything.
type AnalyticsService interface {
	GetReport(ctx context.Context, actor Actor) (*model.AnalyticsReport, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

func (s *analyticsService) GetReport(ctx context.Context, actor Actor) (*model.AnalyticsReport, error) {
	var sellerID *uuid.UUID
	if actor.IsSales() {
		id := actor.ID
		sellerID = &id
	}

	counts, err := s.analyticsRepo.StatusCounts(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.analyticsRepo.MonthlyShippedCounts(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	shipments, err := s.analyticsRepo.CustomerShipmentStats(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	products, err := s.analyticsRepo.CustomerProductTotals(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	report := &model.AnalyticsReport{
		TotalShipped: counts.Shipped,
		StatusCounts: counts,
		Monthly:      monthly,
	}

	index := make(map[string]int, len(shipments))
	for _, row := range shipments {
		report.Customers = append(report.Customers, model.CustomerActivity{
			CustomerName:    row.CustomerName,
			InvoiceCount:    row.InvoiceCount,
			AvgIntervalDays: avgIntervalDays(row),
		})
		index[row.CustomerName] = len(report.Customers) - 1
	}
	for _, row := range products {
		i, ok := index[row.CustomerName]
		if !ok {
			continue
		}
		report.Customers[i].Products = append(report.Customers[i].Products, model.ProductTotal{
			ProductName:   row.ProductName,
			TotalQuantity: row.TotalQuantity,
		})
	}

	return report, nil
}

// avgIntervalDays spreads the span between a customer's first and last
// shipment over the gaps between them, which equals the mean of the
// consecutive intervals.
func avgIntervalDays(row model.CustomerShipmentRow) int {
	if row.InvoiceCount < 2 {
		return 0
	}
	gap := row.LastAt.Sub(row.FirstAt) / time.Duration(row.InvoiceCount-1)
	return int(math.Round(gap.Hours() / 24))
}
