package model

import "time"

// AnalyticsReport feeds the dashboard and performance charts. Monthly and
// per-customer figures cover shipped invoices only; pending invoices appear
// solely in the status tally.
type AnalyticsReport struct {
	TotalShipped int                `json:"total_shipped"`
	StatusCounts StatusCounts       `json:"status_counts"`
	Monthly      []MonthlyCount     `json:"monthly"`
	Customers    []CustomerActivity `json:"customers"`
}

// StatusCounts is the per-status invoice tally shown on the dashboard.
type StatusCounts struct {
	Pending int `json:"pending"`
	Shipped int `json:"shipped"`
}

// MonthlyCount is the number of invoices shipped in one calendar month.
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// CustomerActivity summarizes one customer's shipped invoices.
// AvgIntervalDays is the mean number of days between consecutive invoices,
// zero when the customer has fewer than two.
type CustomerActivity struct {
	CustomerName    string         `json:"customer_name"`
	InvoiceCount    int            `json:"invoice_count"`
	AvgIntervalDays int            `json:"avg_interval_days"`
	Products        []ProductTotal `json:"products"`
}

// ProductTotal is the shipped quantity of one product accumulated across a
// customer's invoices.
type ProductTotal struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int    `json:"total_quantity"`
}

// CustomerShipmentRow is the scan target for the per-customer aggregation.
type CustomerShipmentRow struct {
	CustomerName string
	InvoiceCount int
	FirstAt      time.Time
	LastAt       time.Time
}

// CustomerProductRow is the scan target for the customer/product breakdown.
type CustomerProductRow struct {
	CustomerName  string
	ProductName   string
	TotalQuantity int
}
