package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"
	ws "warehouse-backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConfirmShipmentRequest struct {
	Images []string `json:"images" binding:"max=3"`
}

type InvoiceListFilter struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

// InvoiceService covers the lifecycle of committed invoices: listing,
// shipment confirmation, deletion and the accounting flag. Creation and
// editing go through DraftService.
type InvoiceService interface {
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	Get(ctx context.Context, id string) (*model.Invoice, error)
	ConfirmShipment(ctx context.Context, actor Actor, id string, req ConfirmShipmentRequest) (*model.Invoice, error)
	Delete(ctx context.Context, actor Actor, id string) error
	SetAccountingDone(ctx context.Context, actor Actor, id string, done bool) (*model.Invoice, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	draftRepo    repository.DraftRepository
	movementRepo repository.StockMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
	notifier     Notifier
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	draftRepo repository.DraftRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	notifier Notifier,
) InvoiceService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		draftRepo:    draftRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
		notifier:     notifier,
	}
}

func (s *invoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.invoiceRepo.List(ctx, repository.InvoiceFilter{
		Status: filter.Status,
		Type:   filter.Type,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
}

func (s *invoiceService) Get(ctx context.Context, id string) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return invoice, nil
}

// ConfirmShipment is the sole PENDING to SHIPPED transition. The invoice row
// is locked so two concurrent confirmations cannot both pass the status
// check; the loser sees SHIPPED and is rejected. Stock is not touched, its
// effect was applied while the document was drafted.
func (s *invoiceService) ConfirmShipment(ctx context.Context, actor Actor, id string, req ConfirmShipmentRequest) (*model.Invoice, error) {
	if !actor.IsStockman() {
		return nil, ErrForbidden
	}
	if len(req.Images) > 3 {
		return nil, ErrTooManyImages
	}
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock invoice: %w", findErr)
		}
		if invoice.Status == model.InvoiceStatusShipped {
			return ErrAlreadyShipped
		}
		if invoice.Status != model.InvoiceStatusPending {
			return ErrNotPending
		}

		now := time.Now()
		invoice.Status = model.InvoiceStatusShipped
		invoice.ShipmentImages = req.Images
		invoice.ConfirmedByName = actor.Name
		invoice.ConfirmedAt = &now

		if saveErr := s.invoiceRepo.Update(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice: %w", saveErr)
		}
		return s.writeAudit(txCtx, actor, model.ActionConfirmShipment, invoice.ID.String(), invoice.DisplayID, map[string]interface{}{
			"images": len(req.Images),
		})
	})
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}

	if s.hub != nil {
		s.hub.Publish("invoices.changed", invoice)
	}
	go s.notifier.ShipmentConfirmed(context.WithoutCancel(ctx), invoice)
	return invoice, nil
}

// Delete removes an invoice. Admins may delete any invoice; a non-admin
// creator may delete only their own PENDING ones. Deleting a PENDING invoice
// returns its reserved stock through reversal ledger entries; a SHIPPED
// invoice's stock effect is history and stays. Deletion is refused while an
// edit session is open against the invoice.
func (s *invoiceService) Delete(ctx context.Context, actor Actor, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	if _, findErr := s.draftRepo.FindByBaseInvoice(ctx, invoiceID); findErr == nil {
		return ErrEditSessionOpen
	} else if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check edit sessions: %w", findErr)
	}

	touched := make([]*model.Product, 0)
	var deleted *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock invoice: %w", findErr)
		}

		if !actor.IsAdmin() {
			if invoice.SellerID != actor.ID || invoice.Status != model.InvoiceStatusPending {
				return ErrForbidden
			}
		}

		if invoice.Status == model.InvoiceStatusPending {
			if revErr := s.reverseInvoiceStock(txCtx, invoice, &touched); revErr != nil {
				return revErr
			}
		}

		if delErr := s.invoiceRepo.Delete(txCtx, invoice.ID); delErr != nil {
			return fmt.Errorf("failed to delete invoice: %w", delErr)
		}
		deleted = invoice
		return s.writeAudit(txCtx, actor, model.ActionDeleteInvoice, invoice.ID.String(), invoice.DisplayID, map[string]interface{}{
			"status": invoice.Status,
		})
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Publish("invoices.changed", map[string]interface{}{"deleted": deleted.ID})
		for _, p := range touched {
			s.hub.Publish("products.changed", p)
		}
	}
	return nil
}

// reverseInvoiceStock undoes the stock effect of a PENDING invoice's line
// items, one reversal ledger entry per line.
func (s *invoiceService) reverseInvoiceStock(ctx context.Context, invoice *model.Invoice, touched *[]*model.Product) error {
	for _, item := range invoice.Items {
		product, err := s.productRepo.FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}

		delta := -reserveDelta(invoice.Type, item.Quantity)
		product.Stock += delta
		if err := s.productRepo.UpdateStock(ctx, product.ID, product.Stock); err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}

		movement := model.StockMovement{
			ProductID:  product.ID,
			Delta:      delta,
			StockAfter: product.Stock,
			Reason:     model.MovementDeleteReversal,
			InvoiceID:  &invoice.ID,
		}
		if err := s.movementRepo.Create(ctx, &movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
		*touched = append(*touched, product)
	}
	return nil
}

func (s *invoiceService) SetAccountingDone(ctx context.Context, actor Actor, id string, done bool) (*model.Invoice, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock invoice: %w", findErr)
		}
		invoice.IsAccountingDone = done
		if saveErr := s.invoiceRepo.Update(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice: %w", saveErr)
		}
		return s.writeAudit(txCtx, actor, model.ActionSetAccounting, invoice.ID.String(), invoice.DisplayID, map[string]interface{}{
			"done": done,
		})
	})
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}
	if s.hub != nil {
		s.hub.Publish("invoices.changed", invoice)
	}
	return invoice, nil
}

func (s *invoiceService) writeAudit(ctx context.Context, actor Actor, action, entityID, entityName string, details map[string]interface{}) error {
	return writeAuditEntry(ctx, s.auditRepo, actor, action, entityID, entityName, details)
}
