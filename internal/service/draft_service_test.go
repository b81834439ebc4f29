package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	products  *stubProductRepo
	customers *stubCustomerRepo
	invoices  *stubInvoiceRepo
	drafts    *stubDraftRepo
	movements *stubMovementRepo
	audit     *stubAuditRepo
	notifier  *recordingNotifier

	draftSvc   DraftService
	invoiceSvc InvoiceService

	admin    Actor
	seller   Actor
	stockman Actor
}

func newFixture() *fixture {
	f := &fixture{
		products:  newStubProductRepo(),
		customers: newStubCustomerRepo(),
		invoices:  newStubInvoiceRepo(),
		drafts:    newStubDraftRepo(),
		movements: newStubMovementRepo(),
		audit:     &stubAuditRepo{},
		notifier:  &recordingNotifier{},
		admin:     Actor{ID: uuid.New(), Name: "Ana Admin", Role: model.RoleAdmin},
		seller:    Actor{ID: uuid.New(), Name: "Sam Seller", Role: model.RoleSales},
		stockman:  Actor{ID: uuid.New(), Name: "Wes Warehouse", Role: model.RoleStockman},
	}
	f.draftSvc = NewDraftService(f.drafts, f.products, f.customers, f.invoices, f.movements, f.audit, stubTxManager{}, nil, f.notifier)
	f.invoiceSvc = NewInvoiceService(f.invoices, f.products, f.drafts, f.movements, f.audit, stubTxManager{}, nil, f.notifier)
	return f
}

// startOutgoingDraft opens an OUTGOING draft with a customer already set.
func (f *fixture) startOutgoingDraft(t *testing.T) *model.InvoiceDraft {
	t.Helper()
	ctx := context.Background()

	draft, err := f.draftSvc.StartDraft(ctx, f.seller, StartDraftRequest{Type: model.InvoiceTypeOutgoing})
	require.NoError(t, err)

	customer := f.customers.add("Acme Ltd")
	draft, err = f.draftSvc.SetCustomer(ctx, f.seller, draft.ID.String(), SetCustomerRequest{CustomerID: customer.ID.String()})
	require.NoError(t, err)
	return draft
}

func (f *fixture) addItem(t *testing.T, draftID uuid.UUID, product *model.Product, qty int) *model.InvoiceDraft {
	t.Helper()
	draft, err := f.draftSvc.AddItem(context.Background(), f.seller, draftID.String(), AddItemRequest{
		ProductID: product.ID.String(),
		Quantity:  qty,
	})
	require.NoError(t, err)
	return draft
}

func TestAddItemReservesOutgoingStock(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)

	draft = f.addItem(t, draft.ID, p, 4)

	assert.Equal(t, 6, f.products.stock(p.ID))
	require.Len(t, draft.Items, 1)
	assert.Equal(t, "Widget", draft.Items[0].ProductName)
	assert.Equal(t, 4, draft.Items[0].Quantity)

	movements, err := f.movements.ListByDraft(context.Background(), draft.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementReserve, movements[0].Reason)
	assert.Equal(t, -4, movements[0].Delta)
	assert.Equal(t, 6, movements[0].StockAfter)
}

func TestAddItemIncomingIncreasesStock(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	ctx := context.Background()

	draft, err := f.draftSvc.StartDraft(ctx, f.seller, StartDraftRequest{Type: model.InvoiceTypeIncoming})
	require.NoError(t, err)

	_, err = f.draftSvc.AddItem(ctx, f.seller, draft.ID.String(), AddItemRequest{ProductID: p.ID.String(), Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 13, f.products.stock(p.ID))
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 5)
	draft := f.startOutgoingDraft(t)

	_, err := f.draftSvc.AddItem(context.Background(), f.seller, draft.ID.String(), AddItemRequest{
		ProductID: p.ID.String(),
		Quantity:  6,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Rejected without side effects.
	assert.Equal(t, 5, f.products.stock(p.ID))
	reloaded, err := f.draftSvc.GetDraft(context.Background(), f.seller, draft.ID.String())
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items)
}

func TestAddRemoveSequenceNetsToZero(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)

	draft = f.addItem(t, draft.ID, p, 4)
	assert.Equal(t, 6, f.products.stock(p.ID))

	draft, err := f.draftSvc.RemoveItem(context.Background(), f.seller, draft.ID.String(), draft.Items[0].ID.String())
	require.NoError(t, err)

	assert.Equal(t, 10, f.products.stock(p.ID))
	assert.Empty(t, draft.Items)
}

func TestDiscardRestoresAllProducts(t *testing.T) {
	f := newFixture()
	p1 := f.products.add("Widget", 10)
	p2 := f.products.add("Gadget", 7)
	p3 := f.products.add("Gizmo", 3)
	draft := f.startOutgoingDraft(t)

	f.addItem(t, draft.ID, p1, 2)
	f.addItem(t, draft.ID, p2, 5)
	f.addItem(t, draft.ID, p3, 1)

	require.NoError(t, f.draftSvc.Discard(context.Background(), f.seller, draft.ID.String()))

	assert.Equal(t, 10, f.products.stock(p1.ID))
	assert.Equal(t, 7, f.products.stock(p2.ID))
	assert.Equal(t, 3, f.products.stock(p3.ID))

	_, err := f.draftSvc.GetDraft(context.Background(), f.seller, draft.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

// End-to-end sequence: reserve, reject, release, discard.
func TestDraftLifecycleScenario(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)
	ctx := context.Background()

	draft = f.addItem(t, draft.ID, p, 4)
	assert.Equal(t, 6, f.products.stock(p.ID))

	_, err := f.draftSvc.AddItem(ctx, f.seller, draft.ID.String(), AddItemRequest{ProductID: p.ID.String(), Quantity: 8})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 6, f.products.stock(p.ID))

	draft, err = f.draftSvc.RemoveItem(ctx, f.seller, draft.ID.String(), draft.Items[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10, f.products.stock(p.ID))

	require.NoError(t, f.draftSvc.Discard(ctx, f.seller, draft.ID.String()))
	assert.Equal(t, 10, f.products.stock(p.ID))
}

func TestCommitRequiresItemsAndCustomer(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	ctx := context.Background()

	// No customer selected.
	draft, err := f.draftSvc.StartDraft(ctx, f.seller, StartDraftRequest{Type: model.InvoiceTypeOutgoing})
	require.NoError(t, err)
	_, err = f.draftSvc.AddItem(ctx, f.seller, draft.ID.String(), AddItemRequest{ProductID: p.ID.String(), Quantity: 2})
	require.NoError(t, err)
	_, err = f.draftSvc.Commit(ctx, f.seller, draft.ID.String())
	assert.ErrorIs(t, err, ErrNoCustomer)

	// No items.
	empty := f.startOutgoingDraft(t)
	_, err = f.draftSvc.Commit(ctx, f.seller, empty.ID.String())
	assert.ErrorIs(t, err, ErrEmptyDraft)

	// Neither failure produced an invoice or an extra stock change.
	invoices, err := f.invoices.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, invoices)
	assert.Equal(t, 8, f.products.stock(p.ID))
}

func TestCommitCreatesPendingInvoice(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)
	ctx := context.Background()

	f.addItem(t, draft.ID, p, 3)

	invoice, err := f.draftSvc.Commit(ctx, f.seller, draft.ID.String())
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusPending, invoice.Status)
	assert.True(t, strings.HasPrefix(invoice.DisplayID, "HVL-"))
	assert.Equal(t, "Acme Ltd", invoice.CustomerName)
	assert.Equal(t, f.seller.Name, invoice.SellerName)
	assert.False(t, invoice.IsEdited)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, 3, invoice.Items[0].Quantity)

	// Commit transfers the reservation, it does not decrement again.
	assert.Equal(t, 7, f.products.stock(p.ID))

	// The draft is gone.
	_, err = f.draftSvc.GetDraft(ctx, f.seller, draft.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	// Creation notification fires asynchronously.
	require.Eventually(t, func() bool {
		f.notifier.mu.Lock()
		defer f.notifier.mu.Unlock()
		return len(f.notifier.created) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestEditSessionCancelRestoresStock(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	q := f.products.add("Gadget", 8)
	draft := f.startOutgoingDraft(t)
	ctx := context.Background()

	f.addItem(t, draft.ID, p, 5)
	invoice, err := f.draftSvc.Commit(ctx, f.seller, draft.ID.String())
	require.NoError(t, err)
	require.Equal(t, 5, f.products.stock(p.ID))

	edit, err := f.draftSvc.StartEdit(ctx, f.seller, invoice.ID.String())
	require.NoError(t, err)
	require.Len(t, edit.Items, 1)
	assert.True(t, edit.Items[0].CarriedOver)

	// Remove the committed item: its stock comes back.
	edit, err = f.draftSvc.RemoveItem(ctx, f.seller, edit.ID.String(), edit.Items[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10, f.products.stock(p.ID))

	// Add a different product.
	_, err = f.draftSvc.AddItem(ctx, f.seller, edit.ID.String(), AddItemRequest{ProductID: q.ID.String(), Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, f.products.stock(q.ID))

	// Cancel: both products return to their pre-session values.
	require.NoError(t, f.draftSvc.Discard(ctx, f.seller, edit.ID.String()))
	assert.Equal(t, 5, f.products.stock(p.ID))
	assert.Equal(t, 8, f.products.stock(q.ID))
}

func TestEditCommitReplacesInvoice(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	q := f.products.add("Gadget", 8)
	draft := f.startOutgoingDraft(t)
	ctx := context.Background()

	f.addItem(t, draft.ID, p, 5)
	invoice, err := f.draftSvc.Commit(ctx, f.seller, draft.ID.String())
	require.NoError(t, err)

	edit, err := f.draftSvc.StartEdit(ctx, f.seller, invoice.ID.String())
	require.NoError(t, err)
	edit, err = f.draftSvc.RemoveItem(ctx, f.seller, edit.ID.String(), edit.Items[0].ID.String())
	require.NoError(t, err)
	_, err = f.draftSvc.AddItem(ctx, f.seller, edit.ID.String(), AddItemRequest{ProductID: q.ID.String(), Quantity: 2})
	require.NoError(t, err)

	updated, err := f.draftSvc.Commit(ctx, f.seller, edit.ID.String())
	require.NoError(t, err)

	assert.Equal(t, invoice.ID, updated.ID)
	assert.Equal(t, invoice.DisplayID, updated.DisplayID)
	assert.Equal(t, invoice.Date, updated.Date)
	assert.True(t, updated.IsEdited)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Gadget", updated.Items[0].ProductName)

	// Stock reflects the edit, nothing more.
	assert.Equal(t, 10, f.products.stock(p.ID))
	assert.Equal(t, 6, f.products.stock(q.ID))
}

func TestStartEditRejectsSecondSession(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)
	ctx := context.Background()

	f.addItem(t, draft.ID, p, 1)
	invoice, err := f.draftSvc.Commit(ctx, f.seller, draft.ID.String())
	require.NoError(t, err)

	_, err = f.draftSvc.StartEdit(ctx, f.seller, invoice.ID.String())
	require.NoError(t, err)

	_, err = f.draftSvc.StartEdit(ctx, f.admin, invoice.ID.String())
	assert.ErrorIs(t, err, ErrEditSessionOpen)
}

// racingDraftSvc builds a second service over the same stores whose
// transactions start only after the given callback ran, mimicking a request
// that loses the race to the database.
func (f *fixture) racingDraftSvc(before func()) DraftService {
	return NewDraftService(f.drafts, f.products, f.customers, f.invoices, f.movements, f.audit,
		hookTxManager{before: before}, nil, f.notifier)
}

func TestCommitLosingRaceCreatesNoInvoice(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)
	f.addItem(t, draft.ID, p, 4)
	ctx := context.Background()

	racing := f.racingDraftSvc(func() {
		_, err := f.draftSvc.Commit(ctx, f.seller, draft.ID.String())
		require.NoError(t, err)
	})

	_, err := racing.Commit(ctx, f.seller, draft.ID.String())
	require.ErrorIs(t, err, ErrNotFound)

	invoices, err := f.invoices.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
	assert.Equal(t, 6, f.products.stock(p.ID))
}

func TestDiscardLosingRaceLeavesStockAlone(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)
	f.addItem(t, draft.ID, p, 4)
	ctx := context.Background()

	racing := f.racingDraftSvc(func() {
		require.NoError(t, f.draftSvc.Discard(ctx, f.seller, draft.ID.String()))
	})

	err := racing.Discard(ctx, f.seller, draft.ID.String())
	require.ErrorIs(t, err, ErrNotFound)

	// Reserved 4 were restored exactly once.
	assert.Equal(t, 10, f.products.stock(p.ID))
	movements, err := f.movements.ListByDraft(ctx, draft.ID)
	require.NoError(t, err)
	discards := 0
	for _, m := range movements {
		if m.Reason == model.MovementDiscard {
			discards++
		}
	}
	assert.Equal(t, 1, discards)
}

func TestAddItemPositionsSurviveRemoval(t *testing.T) {
	f := newFixture()
	bolts := f.products.add("Bolts", 20)
	nuts := f.products.add("Nuts", 20)
	screws := f.products.add("Screws", 20)
	draft := f.startOutgoingDraft(t)
	ctx := context.Background()

	draft = f.addItem(t, draft.ID, bolts, 1)
	draft = f.addItem(t, draft.ID, nuts, 1)

	draft, err := f.draftSvc.RemoveItem(ctx, f.seller, draft.ID.String(), draft.Items[0].ID.String())
	require.NoError(t, err)

	draft = f.addItem(t, draft.ID, screws, 1)

	require.Len(t, draft.Items, 2)
	assert.Equal(t, "Nuts", draft.Items[0].ProductName)
	assert.Equal(t, "Screws", draft.Items[1].ProductName)
	assert.Less(t, draft.Items[0].Position, draft.Items[1].Position)
}

func TestDraftOwnership(t *testing.T) {
	f := newFixture()
	p := f.products.add("Widget", 10)
	draft := f.startOutgoingDraft(t)
	ctx := context.Background()

	otherSeller := Actor{ID: uuid.New(), Name: "Olga Other", Role: model.RoleSales}
	_, err := f.draftSvc.AddItem(ctx, otherSeller, draft.ID.String(), AddItemRequest{ProductID: p.ID.String(), Quantity: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may act on any draft.
	_, err = f.draftSvc.AddItem(ctx, f.admin, draft.ID.String(), AddItemRequest{ProductID: p.ID.String(), Quantity: 1})
	assert.NoError(t, err)
}

func TestStartDraftRoleGate(t *testing.T) {
	f := newFixture()

	_, err := f.draftSvc.StartDraft(context.Background(), f.stockman, StartDraftRequest{Type: model.InvoiceTypeOutgoing})
	assert.ErrorIs(t, err, ErrForbidden)
}
