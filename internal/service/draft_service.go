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

// DTOs

type StartDraftRequest struct {
	Type string `json:"type" binding:"required,oneof=INCOMING OUTGOING"`
}

type SetCustomerRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

type UpdateDraftRequest struct {
	Description            *string `json:"description"`
	IsAlternativeAddress   *bool   `json:"is_alternative_address"`
	RecipientName          *string `json:"recipient_name"`
	RecipientPhone         *string `json:"recipient_phone"`
	AlternativeLocationURL *string `json:"alternative_location_url"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// DraftService owns the invoice draft workflow. Every item added to or
// removed from a draft adjusts the product's stock inside a transaction that
// row-locks the product, and records a ledger entry so the session can be
// reversed exactly. A draft of kind EDIT is an open edit session against an
// existing pending invoice.
type DraftService interface {
	StartDraft(ctx context.Context, actor Actor, req StartDraftRequest) (*model.InvoiceDraft, error)
	StartEdit(ctx context.Context, actor Actor, invoiceID string) (*model.InvoiceDraft, error)
	GetDraft(ctx context.Context, actor Actor, id string) (*model.InvoiceDraft, error)
	ListDrafts(ctx context.Context, actor Actor) ([]model.InvoiceDraft, error)
	SetCustomer(ctx context.Context, actor Actor, draftID string, req SetCustomerRequest) (*model.InvoiceDraft, error)
	UpdateDraft(ctx context.Context, actor Actor, draftID string, req UpdateDraftRequest) (*model.InvoiceDraft, error)
	AddItem(ctx context.Context, actor Actor, draftID string, req AddItemRequest) (*model.InvoiceDraft, error)
	RemoveItem(ctx context.Context, actor Actor, draftID, itemID string) (*model.InvoiceDraft, error)
	Discard(ctx context.Context, actor Actor, draftID string) error
	Commit(ctx context.Context, actor Actor, draftID string) (*model.Invoice, error)
}

type draftService struct {
	draftRepo    repository.DraftRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	movementRepo repository.StockMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
	notifier     Notifier
}

func NewDraftService(
	draftRepo repository.DraftRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	notifier Notifier,
) DraftService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &draftService{
		draftRepo:    draftRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
		notifier:     notifier,
	}
}

func (s *draftService) StartDraft(ctx context.Context, actor Actor, req StartDraftRequest) (*model.InvoiceDraft, error) {
	if !actor.IsAdmin() && !actor.IsSales() {
		return nil, ErrForbidden
	}

	draft := model.InvoiceDraft{
		Kind:          model.DraftKindNew,
		Type:          req.Type,
		CreatedByID:   actor.ID,
		CreatedByName: actor.Name,
	}
	if err := s.draftRepo.Create(ctx, &draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return &draft, nil
}

func (s *draftService) StartEdit(ctx context.Context, actor Actor, invoiceID string) (*model.InvoiceDraft, error) {
	if !actor.IsAdmin() && !actor.IsSales() {
		return nil, ErrForbidden
	}

	baseID, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	if existing, findErr := s.draftRepo.FindByBaseInvoice(ctx, baseID); findErr == nil && existing != nil {
		return nil, ErrEditSessionOpen
	} else if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check edit sessions: %w", findErr)
	}

	var draft model.InvoiceDraft
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, baseID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load invoice: %w", findErr)
		}
		if invoice.Status != model.InvoiceStatusPending {
			return ErrNotPending
		}

		draft = model.InvoiceDraft{
			Kind:                   model.DraftKindEdit,
			Type:                   invoice.Type,
			CreatedByID:            actor.ID,
			CreatedByName:          actor.Name,
			CustomerID:             invoice.CustomerID,
			CustomerName:           invoice.CustomerName,
			CustomerPhone:          invoice.CustomerPhone,
			CustomerAddress:        invoice.CustomerAddress,
			CustomerLocation:       invoice.CustomerLocation,
			Description:            invoice.Description,
			IsAlternativeAddress:   invoice.IsAlternativeAddress,
			RecipientName:          invoice.RecipientName,
			RecipientPhone:         invoice.RecipientPhone,
			AlternativeLocationURL: invoice.AlternativeLocationURL,
			BaseInvoiceID:          &invoice.ID,
		}
		for _, item := range invoice.Items {
			draft.Items = append(draft.Items, model.InvoiceDraftItem{
				Position:    item.Position,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Image:       item.Image,
				CarriedOver: true,
			})
		}
		if createErr := s.draftRepo.Create(txCtx, &draft); createErr != nil {
			return fmt.Errorf("failed to create edit session: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.draftRepo.FindByID(ctx, draft.ID)
}

func (s *draftService) GetDraft(ctx context.Context, actor Actor, id string) (*model.InvoiceDraft, error) {
	return s.loadOwnedDraft(ctx, actor, id)
}

func (s *draftService) ListDrafts(ctx context.Context, actor Actor) ([]model.InvoiceDraft, error) {
	if actor.IsAdmin() {
		return s.draftRepo.ListAll(ctx)
	}
	if !actor.IsSales() {
		return nil, ErrForbidden
	}
	return s.draftRepo.ListByCreator(ctx, actor.ID)
}

func (s *draftService) SetCustomer(ctx context.Context, actor Actor, draftID string, req SetCustomerRequest) (*model.InvoiceDraft, error) {
	draft, err := s.loadOwnedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	draft.CustomerID = &customer.ID
	draft.CustomerName = customer.Name
	draft.CustomerPhone = customer.Phone
	draft.CustomerAddress = customer.Address
	draft.CustomerLocation = customer.LocationURL

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return s.draftRepo.FindByID(ctx, draft.ID)
}

func (s *draftService) UpdateDraft(ctx context.Context, actor Actor, draftID string, req UpdateDraftRequest) (*model.InvoiceDraft, error) {
	draft, err := s.loadOwnedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		draft.Description = *req.Description
	}
	if req.IsAlternativeAddress != nil {
		draft.IsAlternativeAddress = *req.IsAlternativeAddress
	}
	if req.RecipientName != nil {
		draft.RecipientName = *req.RecipientName
	}
	if req.RecipientPhone != nil {
		draft.RecipientPhone = *req.RecipientPhone
	}
	if req.AlternativeLocationURL != nil {
		draft.AlternativeLocationURL = *req.AlternativeLocationURL
	}
	if !draft.IsAlternativeAddress {
		draft.RecipientName = ""
		draft.RecipientPhone = ""
		draft.AlternativeLocationURL = ""
	}

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return s.draftRepo.FindByID(ctx, draft.ID)
}

// AddItem appends a line item to the draft. The product's stock is adjusted
// in the same transaction under a row lock, so a concurrent draft cannot
// observe a stale stock figure. OUTGOING drafts are rejected outright when
// the requested quantity exceeds the current stock.
func (s *draftService) AddItem(ctx context.Context, actor Actor, draftID string, req AddItemRequest) (*model.InvoiceDraft, error) {
	draft, err := s.loadOwnedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}

	var updated *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, findErr := s.productRepo.FindByIDForUpdate(txCtx, productID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock product: %w", findErr)
		}

		delta := reserveDelta(draft.Type, req.Quantity)
		if product.Stock+delta < 0 {
			return ErrInsufficientStock
		}
		product.Stock += delta
		if updateErr := s.productRepo.UpdateStock(txCtx, product.ID, product.Stock); updateErr != nil {
			return fmt.Errorf("failed to adjust stock: %w", updateErr)
		}

		movement := model.StockMovement{
			ProductID:  product.ID,
			Delta:      delta,
			StockAfter: product.Stock,
			Reason:     model.MovementReserve,
			DraftID:    &draft.ID,
		}
		if movErr := s.movementRepo.Create(txCtx, &movement); movErr != nil {
			return fmt.Errorf("failed to record stock movement: %w", movErr)
		}

		item := model.InvoiceDraftItem{
			DraftID:     draft.ID,
			Position:    nextPosition(draft.Items),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			Image:       product.Image,
		}
		if itemErr := s.draftRepo.AddItem(txCtx, &item); itemErr != nil {
			return fmt.Errorf("failed to add draft item: %w", itemErr)
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishProductChanged(updated)
	return s.draftRepo.FindByID(ctx, draft.ID)
}

// RemoveItem is the symmetric inverse of AddItem: it restores the stock the
// line item had reserved and drops the line from the draft.
func (s *draftService) RemoveItem(ctx context.Context, actor Actor, draftID, itemID string) (*model.InvoiceDraft, error) {
	draft, err := s.loadOwnedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id", ErrInvalidInput)
	}

	var line *model.InvoiceDraftItem
	for i := range draft.Items {
		if draft.Items[i].ID == lineID {
			line = &draft.Items[i]
			break
		}
	}
	if line == nil {
		return nil, ErrNotFound
	}

	var updated *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, findErr := s.productRepo.FindByIDForUpdate(txCtx, line.ProductID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock product: %w", findErr)
		}

		delta := -reserveDelta(draft.Type, line.Quantity)
		product.Stock += delta
		if updateErr := s.productRepo.UpdateStock(txCtx, product.ID, product.Stock); updateErr != nil {
			return fmt.Errorf("failed to adjust stock: %w", updateErr)
		}

		movement := model.StockMovement{
			ProductID:  product.ID,
			Delta:      delta,
			StockAfter: product.Stock,
			Reason:     model.MovementRelease,
			DraftID:    &draft.ID,
		}
		if movErr := s.movementRepo.Create(txCtx, &movement); movErr != nil {
			return fmt.Errorf("failed to record stock movement: %w", movErr)
		}

		if delErr := s.draftRepo.RemoveItem(txCtx, line.ID); delErr != nil {
			return fmt.Errorf("failed to remove draft item: %w", delErr)
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishProductChanged(updated)
	return s.draftRepo.FindByID(ctx, draft.ID)
}

// Discard reverses every stock adjustment the session made and deletes the
// draft. Reversal is computed as the net delta per product over the session's
// ledger entries, so it holds no matter in which order items were added and
// removed. For an edit session this returns stock to the committed state of
// the base invoice.
func (s *draftService) Discard(ctx context.Context, actor Actor, draftID string) error {
	draft, err := s.loadOwnedDraft(ctx, actor, draftID)
	if err != nil {
		return err
	}

	touched := make([]*model.Product, 0)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-take the draft under a row lock. A concurrent commit or
		// discard that won the race has already consumed it, and running
		// the reversal again would move stock twice.
		if _, lockErr := s.draftRepo.FindByIDForUpdate(txCtx, draft.ID); lockErr != nil {
			if errors.Is(lockErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock draft: %w", lockErr)
		}

		movements, listErr := s.movementRepo.ListByDraft(txCtx, draft.ID)
		if listErr != nil {
			return fmt.Errorf("failed to load session movements: %w", listErr)
		}

		net := make(map[uuid.UUID]int)
		order := make([]uuid.UUID, 0)
		for _, m := range movements {
			if _, seen := net[m.ProductID]; !seen {
				order = append(order, m.ProductID)
			}
			net[m.ProductID] += m.Delta
		}

		for _, productID := range order {
			delta := net[productID]
			if delta == 0 {
				continue
			}
			product, findErr := s.productRepo.FindByIDForUpdate(txCtx, productID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to lock product: %w", findErr)
			}
			product.Stock -= delta
			if updateErr := s.productRepo.UpdateStock(txCtx, product.ID, product.Stock); updateErr != nil {
				return fmt.Errorf("failed to restore stock: %w", updateErr)
			}
			movement := model.StockMovement{
				ProductID:  product.ID,
				Delta:      -delta,
				StockAfter: product.Stock,
				Reason:     model.MovementDiscard,
				DraftID:    &draft.ID,
			}
			if movErr := s.movementRepo.Create(txCtx, &movement); movErr != nil {
				return fmt.Errorf("failed to record stock movement: %w", movErr)
			}
			touched = append(touched, product)
		}

		if delErr := s.draftRepo.Delete(txCtx, draft.ID); delErr != nil {
			return fmt.Errorf("failed to delete draft: %w", delErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range touched {
		s.publishProductChanged(p)
	}
	return nil
}

// Commit finalizes a draft. A NEW draft becomes a pending invoice whose
// identifier is derived from the commit timestamp; an EDIT draft overwrites
// the fields and items of its base invoice, which keeps its identifier and
// creation date and is marked as edited. Stock is not touched here: every
// adjustment already happened when items were added or removed.
func (s *draftService) Commit(ctx context.Context, actor Actor, draftID string) (*model.Invoice, error) {
	draft, err := s.loadOwnedDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}
	if len(draft.Items) == 0 {
		return nil, ErrEmptyDraft
	}
	if draft.CustomerName == "" {
		return nil, ErrNoCustomer
	}

	var invoice *model.Invoice
	if draft.Kind == model.DraftKindEdit {
		invoice, err = s.commitEdit(ctx, actor, draft)
	} else {
		invoice, err = s.commitNew(ctx, actor, draft)
	}
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish("invoices.changed", invoice)
	}
	if draft.Kind == model.DraftKindNew {
		go s.notifier.InvoiceCreated(context.WithoutCancel(ctx), invoice)
	}
	return invoice, nil
}

func (s *draftService) commitNew(ctx context.Context, actor Actor, draft *model.InvoiceDraft) (*model.Invoice, error) {
	now := time.Now()
	invoice := model.Invoice{
		DisplayID:              newDisplayID(now),
		Type:                   draft.Type,
		Status:                 model.InvoiceStatusPending,
		CustomerID:             draft.CustomerID,
		CustomerName:           draft.CustomerName,
		CustomerPhone:          draft.CustomerPhone,
		CustomerAddress:        draft.CustomerAddress,
		CustomerLocation:       draft.CustomerLocation,
		SellerID:               draft.CreatedByID,
		SellerName:             draft.CreatedByName,
		Date:                   now.Format("02/01/2006"),
		Time:                   now.Format("15:04"),
		Description:            draft.Description,
		IsAlternativeAddress:   draft.IsAlternativeAddress,
		RecipientName:          draft.RecipientName,
		RecipientPhone:         draft.RecipientPhone,
		AlternativeLocationURL: draft.AlternativeLocationURL,
	}
	for _, item := range draft.Items {
		invoice.Items = append(invoice.Items, model.InvoiceItem{
			Position:    item.Position,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Image:       item.Image,
		})
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Lock the draft row first. Losing the race to another commit or
		// a discard means the reservation was already consumed, so this
		// invoice must not be created.
		if _, lockErr := s.draftRepo.FindByIDForUpdate(txCtx, draft.ID); lockErr != nil {
			if errors.Is(lockErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock draft: %w", lockErr)
		}
		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}
		if tagErr := s.movementRepo.TagInvoice(txCtx, draft.ID, invoice.ID); tagErr != nil {
			return fmt.Errorf("failed to link movements to invoice: %w", tagErr)
		}
		if delErr := s.draftRepo.Delete(txCtx, draft.ID); delErr != nil {
			return fmt.Errorf("failed to delete draft: %w", delErr)
		}
		return s.writeAudit(txCtx, actor, model.ActionCommitInvoice, invoice.ID.String(), invoice.DisplayID, map[string]interface{}{
			"type":     invoice.Type,
			"customer": invoice.CustomerName,
			"items":    len(invoice.Items),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.FindByID(ctx, invoice.ID)
}

func (s *draftService) commitEdit(ctx context.Context, actor Actor, draft *model.InvoiceDraft) (*model.Invoice, error) {
	var invoiceID uuid.UUID
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, lockErr := s.draftRepo.FindByIDForUpdate(txCtx, draft.ID); lockErr != nil {
			if errors.Is(lockErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock edit session: %w", lockErr)
		}

		invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, *draft.BaseInvoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock invoice: %w", findErr)
		}
		if invoice.Status != model.InvoiceStatusPending {
			return ErrNotPending
		}

		invoice.CustomerID = draft.CustomerID
		invoice.CustomerName = draft.CustomerName
		invoice.CustomerPhone = draft.CustomerPhone
		invoice.CustomerAddress = draft.CustomerAddress
		invoice.CustomerLocation = draft.CustomerLocation
		invoice.Description = draft.Description
		invoice.IsAlternativeAddress = draft.IsAlternativeAddress
		invoice.RecipientName = draft.RecipientName
		invoice.RecipientPhone = draft.RecipientPhone
		invoice.AlternativeLocationURL = draft.AlternativeLocationURL
		invoice.IsEdited = true

		if saveErr := s.invoiceRepo.Update(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to update invoice: %w", saveErr)
		}

		items := make([]model.InvoiceItem, 0, len(draft.Items))
		for i, item := range draft.Items {
			items = append(items, model.InvoiceItem{
				InvoiceID:   invoice.ID,
				Position:    i + 1,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Image:       item.Image,
			})
		}
		if replaceErr := s.invoiceRepo.ReplaceItems(txCtx, invoice.ID, items); replaceErr != nil {
			return fmt.Errorf("failed to replace invoice items: %w", replaceErr)
		}

		if tagErr := s.movementRepo.TagInvoice(txCtx, draft.ID, invoice.ID); tagErr != nil {
			return fmt.Errorf("failed to link movements to invoice: %w", tagErr)
		}
		if delErr := s.draftRepo.Delete(txCtx, draft.ID); delErr != nil {
			return fmt.Errorf("failed to delete edit session: %w", delErr)
		}

		invoiceID = invoice.ID
		return s.writeAudit(txCtx, actor, model.ActionEditInvoice, invoice.ID.String(), invoice.DisplayID, map[string]interface{}{
			"items": len(items),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.FindByID(ctx, invoiceID)
}

// loadOwnedDraft loads a draft and enforces that only its creator or an
// admin may act on it.
func (s *draftService) loadOwnedDraft(ctx context.Context, actor Actor, id string) (*model.InvoiceDraft, error) {
	draftID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid draft id", ErrInvalidInput)
	}
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft.CreatedByID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return draft, nil
}

func (s *draftService) writeAudit(ctx context.Context, actor Actor, action, entityID, entityName string, details map[string]interface{}) error {
	return writeAuditEntry(ctx, s.auditRepo, actor, action, entityID, entityName, details)
}

func (s *draftService) publishProductChanged(p *model.Product) {
	if s.hub == nil || p == nil {
		return
	}
	s.hub.Publish("products.changed", p)
}

// nextPosition picks the position for a newly added line. Counting items is
// not enough: after a removal the count drops below the highest position still
// in use, and reusing it would break the display order.
func nextPosition(items []model.InvoiceDraftItem) int {
	highest := 0
	for _, item := range items {
		if item.Position > highest {
			highest = item.Position
		}
	}
	return highest + 1
}

// reserveDelta maps a quantity to the stock adjustment a draft of the given
// type applies when the item is added. OUTGOING reserves stock, INCOMING
// records expected intake.
func reserveDelta(invType string, quantity int) int {
	if invType == model.InvoiceTypeOutgoing {
		return -quantity
	}
	return quantity
}

// newDisplayID derives the human-facing invoice identifier from the commit
// timestamp. It stays stable across edits.
func newDisplayID(t time.Time) string {
	return fmt.Sprintf("HVL-%d", t.UnixMilli())
}
