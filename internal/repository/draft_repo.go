package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftRepository interface {
	Create(ctx context.Context, draft *model.InvoiceDraft) error
	Update(ctx context.Context, draft *model.InvoiceDraft) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InvoiceDraft, error)
	// FindByIDForUpdate locks the draft row for the duration of the
	// surrounding transaction. Commit and discard take this lock so only
	// one of two concurrent finalizations can consume the draft.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InvoiceDraft, error)
	FindByBaseInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.InvoiceDraft, error)
	AddItem(ctx context.Context, item *model.InvoiceDraftItem) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.InvoiceDraft, error)
	ListAll(ctx context.Context) ([]model.InvoiceDraft, error)
}

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, draft *model.InvoiceDraft) error {
	return GetDB(ctx, r.db).Create(draft).Error
}

func (r *draftRepository) Update(ctx context.Context, draft *model.InvoiceDraft) error {
	return GetDB(ctx, r.db).Omit("Items").Save(draft).Error
}

func (r *draftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("draft_id = ?", id).Delete(&model.InvoiceDraftItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.InvoiceDraft{}).Error
}

func (r *draftRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InvoiceDraft, error) {
	var draft model.InvoiceDraft
	if err := GetDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&draft, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InvoiceDraft, error) {
	var draft model.InvoiceDraft
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).First(&draft, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) FindByBaseInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.InvoiceDraft, error) {
	var draft model.InvoiceDraft
	if err := GetDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("base_invoice_id = ?", invoiceID).First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) AddItem(ctx context.Context, item *model.InvoiceDraftItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *draftRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", itemID).Delete(&model.InvoiceDraftItem{}).Error
}

func (r *draftRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.InvoiceDraft, error) {
	var drafts []model.InvoiceDraft
	if err := GetDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("created_by_id = ?", creatorID).Order("created_at desc").Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *draftRepository) ListAll(ctx context.Context) ([]model.InvoiceDraft, error) {
	var drafts []model.InvoiceDraft
	if err := GetDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Order("created_at desc").Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}
