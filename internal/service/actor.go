package service

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
)

// Actor identifies the authenticated user performing an operation. Handlers
// build it from verified JWT claims; services enforce role and ownership
// rules against it.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

func (a Actor) IsAdmin() bool    { return a.Role == model.RoleAdmin }
func (a Actor) IsSales() bool    { return a.Role == model.RoleSales }
func (a Actor) IsStockman() bool { return a.Role == model.RoleStockman }

// Notifier delivers best-effort notifications for invoice lifecycle events.
// Implementations must never fail the triggering operation.
type Notifier interface {
	InvoiceCreated(ctx context.Context, invoice *model.Invoice)
	ShipmentConfirmed(ctx context.Context, invoice *model.Invoice)
}

// NopNotifier is used where notifications are not wired (tests, tools).
type NopNotifier struct{}

func (NopNotifier) InvoiceCreated(context.Context, *model.Invoice)    {}
func (NopNotifier) ShipmentConfirmed(context.Context, *model.Invoice) {}
