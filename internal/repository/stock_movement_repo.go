package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	// ListByDraft returns the session's movements, newest first, so a
	// discard can walk them in reverse order of application.
	ListByDraft(ctx context.Context, draftID uuid.UUID) ([]model.StockMovement, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error)
	// TagInvoice stamps the invoice id onto a draft session's movements when
	// the draft is committed, linking the ledger rows to the final document.
	TagInvoice(ctx context.Context, draftID, invoiceID uuid.UUID) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.StockMovement, error)
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *stockMovementRepository) ListByDraft(ctx context.Context, draftID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	if err := GetDB(ctx, r.db).Where("draft_id = ?", draftID).
		Order("created_at desc").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockMovement{}).Where("product_id = ?", productID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

func (r *stockMovementRepository) TagInvoice(ctx context.Context, draftID, invoiceID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.StockMovement{}).
		Where("draft_id = ?", draftID).
		Update("invoice_id", invoiceID).Error
}

func (r *stockMovementRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	if err := GetDB(ctx, r.db).Where("invoice_id = ?", invoiceID).
		Order("created_at desc").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
