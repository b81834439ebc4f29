package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests.

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// hookTxManager runs a callback right before the transaction body, standing in
// for another request that reaches the database first.
type hookTxManager struct {
	before func()
}

func (m hookTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.before != nil {
		m.before()
	}
	return fn(ctx)
}

// --- products ---

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(name string, stock int) *model.Product {
	p := &model.Product{ID: uuid.New(), Name: name, Category: "general", Stock: stock, Unit: "pcs"}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	cloned := *p
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *stubProductRepo) UpdateStock(_ context.Context, id uuid.UUID, stock int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductRepo) List(_ context.Context, _, _ int, _, _ string) ([]model.Product, int64, error) {
	return r.all(), int64(len(r.products)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	return r.all(), nil
}

func (r *stubProductRepo) ReplaceAll(_ context.Context, products []model.Product) error {
	r.products = make(map[uuid.UUID]*model.Product)
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return nil
}

func (r *stubProductRepo) all() []model.Product {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out
}

func (r *stubProductRepo) stock(id uuid.UUID) int {
	return r.products[id].Stock
}

// --- customers ---

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) add(name string) *model.Customer {
	c := &model.Customer{ID: uuid.New(), Name: name, Phone: "555-0000", Address: "1 Main St"}
	r.customers[c.ID] = c
	return c
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.customers[c.ID] = &cloned
	return nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	cloned := *c
	r.customers[c.ID] = &cloned
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _, _ int, _ string) ([]model.Customer, int64, error) {
	return nil, 0, nil
}

func (r *stubCustomerRepo) ListAll(_ context.Context) ([]model.Customer, error) {
	return nil, nil
}

func (r *stubCustomerRepo) ReplaceAll(_ context.Context, _ []model.Customer) error {
	return nil
}

// --- drafts ---

type stubDraftRepo struct {
	drafts map[uuid.UUID]*model.InvoiceDraft
	items  map[uuid.UUID]*model.InvoiceDraftItem
}

func newStubDraftRepo() *stubDraftRepo {
	return &stubDraftRepo{
		drafts: make(map[uuid.UUID]*model.InvoiceDraft),
		items:  make(map[uuid.UUID]*model.InvoiceDraftItem),
	}
}

func (r *stubDraftRepo) Create(_ context.Context, d *model.InvoiceDraft) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	for i := range d.Items {
		item := d.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.DraftID = d.ID
		r.items[item.ID] = &item
	}
	cloned := *d
	cloned.Items = nil
	r.drafts[d.ID] = &cloned
	return nil
}

func (r *stubDraftRepo) Update(_ context.Context, d *model.InvoiceDraft) error {
	cloned := *d
	cloned.Items = nil
	r.drafts[d.ID] = &cloned
	return nil
}

func (r *stubDraftRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.drafts, id)
	for itemID, item := range r.items {
		if item.DraftID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *stubDraftRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InvoiceDraft, error) {
	d, ok := r.drafts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *d
	cloned.Items = r.itemsOf(id)
	return &cloned, nil
}

func (r *stubDraftRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InvoiceDraft, error) {
	return r.FindByID(ctx, id)
}

func (r *stubDraftRepo) FindByBaseInvoice(_ context.Context, invoiceID uuid.UUID) (*model.InvoiceDraft, error) {
	for _, d := range r.drafts {
		if d.BaseInvoiceID != nil && *d.BaseInvoiceID == invoiceID {
			cloned := *d
			cloned.Items = r.itemsOf(d.ID)
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubDraftRepo) AddItem(_ context.Context, item *model.InvoiceDraftItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cloned := *item
	r.items[item.ID] = &cloned
	return nil
}

func (r *stubDraftRepo) RemoveItem(_ context.Context, itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

func (r *stubDraftRepo) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]model.InvoiceDraft, error) {
	out := make([]model.InvoiceDraft, 0)
	for _, d := range r.drafts {
		if d.CreatedByID == creatorID {
			cloned := *d
			cloned.Items = r.itemsOf(d.ID)
			out = append(out, cloned)
		}
	}
	return out, nil
}

func (r *stubDraftRepo) ListAll(_ context.Context) ([]model.InvoiceDraft, error) {
	out := make([]model.InvoiceDraft, 0, len(r.drafts))
	for _, d := range r.drafts {
		cloned := *d
		cloned.Items = r.itemsOf(d.ID)
		out = append(out, cloned)
	}
	return out, nil
}

func (r *stubDraftRepo) itemsOf(draftID uuid.UUID) []model.InvoiceDraftItem {
	out := make([]model.InvoiceDraftItem, 0)
	for _, item := range r.items {
		if item.DraftID == draftID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// --- invoices ---

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	for i := range inv.Items {
		if inv.Items[i].ID == uuid.Nil {
			inv.Items[i].ID = uuid.New()
		}
		inv.Items[i].InvoiceID = inv.ID
	}
	cloned := cloneInvoice(inv)
	r.invoices[inv.ID] = cloned
	return nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := stored.Items
	cloned := cloneInvoice(inv)
	cloned.Items = items
	r.invoices[inv.ID] = cloned
	return nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneInvoice(inv), nil
}

func (r *stubInvoiceRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r *stubInvoiceRepo) ReplaceItems(_ context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].InvoiceID = invoiceID
	}
	inv.Items = append([]model.InvoiceItem(nil), items...)
	return nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _ repository.InvoiceFilter) ([]model.Invoice, int64, error) {
	return nil, 0, nil
}

func (r *stubInvoiceRepo) ListAll(_ context.Context) ([]model.Invoice, error) {
	out := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *cloneInvoice(inv))
	}
	return out, nil
}

func (r *stubInvoiceRepo) ReplaceAll(_ context.Context, _ []model.Invoice) error {
	return nil
}

func cloneInvoice(inv *model.Invoice) *model.Invoice {
	cloned := *inv
	cloned.Items = append([]model.InvoiceItem(nil), inv.Items...)
	return &cloned
}

// --- stock movements ---

type stubMovementRepo struct {
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo {
	return &stubMovementRepo{}
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByDraft(_ context.Context, draftID uuid.UUID) ([]model.StockMovement, error) {
	out := make([]model.StockMovement, 0)
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if m.DraftID != nil && *m.DraftID == draftID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _, _ int) ([]model.StockMovement, int64, error) {
	out := make([]model.StockMovement, 0)
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) TagInvoice(_ context.Context, draftID, invoiceID uuid.UUID) error {
	for i := range r.movements {
		if r.movements[i].DraftID != nil && *r.movements[i].DraftID == draftID {
			id := invoiceID
			r.movements[i].InvoiceID = &id
		}
	}
	return nil
}

func (r *stubMovementRepo) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.StockMovement, error) {
	out := make([]model.StockMovement, 0)
	for _, m := range r.movements {
		if m.InvoiceID != nil && *m.InvoiceID == invoiceID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- audit ---

type stubAuditRepo struct {
	entries []model.AuditLog
}

func (r *stubAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, _, _ int, _ string) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

// --- notifier ---

type recordingNotifier struct {
	mu        sync.Mutex
	created   []model.Invoice
	confirmed []model.Invoice
}

func (n *recordingNotifier) InvoiceCreated(_ context.Context, invoice *model.Invoice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, *cloneInvoice(invoice))
}

func (n *recordingNotifier) ShipmentConfirmed(_ context.Context, invoice *model.Invoice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, *cloneInvoice(invoice))
}

func (n *recordingNotifier) confirmedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.confirmed)
}
