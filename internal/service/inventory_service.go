package service

import (
	"context"
	"errors"
	"fmt"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"
	ws "warehouse-backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs

type CreateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Stock    int    `json:"stock" binding:"min=0"`
	Unit     string `json:"unit" binding:"required"`
	Image    string `json:"image"`
}

// UpdateProductRequest carries metadata only. Stock is deliberately absent:
// after creation it changes only through the draft/invoice ledger.
type UpdateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Unit     string `json:"unit" binding:"required"`
	Image    string `json:"image"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type ProductListFilter struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

// InventoryService manages the product catalog and exposes the stock ledger.
type InventoryService interface {
	ListProducts(ctx context.Context, filter ProductListFilter) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, id string, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor Actor, id string) error
	ListMovements(ctx context.Context, productID string, page, limit int) ([]model.StockMovement, int64, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, actor Actor, req CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, actor Actor, id string, req CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, actor Actor, id string) error
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *inventoryService) ListProducts(ctx context.Context, filter ProductListFilter) ([]model.Product, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.productRepo.List(ctx, filter.Page, filter.Limit, filter.Category, filter.Search)
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	product := model.Product{
		Name:     req.Name,
		Category: req.Category,
		Stock:    req.Stock,
		Unit:     req.Unit,
		Image:    req.Image,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.productRepo.Create(txCtx, &product); createErr != nil {
			return fmt.Errorf("failed to create product: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, actor, model.ActionCreateProduct, product.ID.String(), product.Name, map[string]interface{}{
			"category": req.Category,
			"stock":    req.Stock,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishProduct(&product)
	return &product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, actor Actor, id string, req UpdateProductRequest) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}

	var product *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		product, findErr = s.productRepo.FindByIDForUpdate(txCtx, productID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock product: %w", findErr)
		}

		product.Name = req.Name
		product.Category = req.Category
		product.Unit = req.Unit
		product.Image = req.Image

		if saveErr := s.productRepo.Update(txCtx, product); saveErr != nil {
			return fmt.Errorf("failed to update product: %w", saveErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, actor, model.ActionUpdateProduct, product.ID.String(), product.Name, map[string]interface{}{
			"category": req.Category,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishProduct(product)
	return product, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.productRepo.Delete(txCtx, productID); delErr != nil {
			return fmt.Errorf("failed to delete product: %w", delErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, actor, model.ActionDeleteProduct, productID.String(), product.Name, nil)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Publish("products.changed", map[string]interface{}{"deleted": productID})
	}
	return nil
}

func (s *inventoryService) ListMovements(ctx context.Context, productID string, page, limit int) ([]model.StockMovement, int64, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.movementRepo.ListByProduct(ctx, id, page, limit)
}

func (s *inventoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.ListAll(ctx)
}

func (s *inventoryService) CreateCategory(ctx context.Context, actor Actor, req CategoryRequest) (*model.Category, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	category := model.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.publishCategories()
	return &category, nil
}

func (s *inventoryService) UpdateCategory(ctx context.Context, actor Actor, id string, req CategoryRequest) (*model.Category, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	category.Name = req.Name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	s.publishCategories()
	return category, nil
}

func (s *inventoryService) DeleteCategory(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}
	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.publishCategories()
	return nil
}

func (s *inventoryService) publishProduct(p *model.Product) {
	if s.hub == nil || p == nil {
		return
	}
	s.hub.Publish("products.changed", p)
}

func (s *inventoryService) publishCategories() {
	if s.hub == nil {
		return
	}
	s.hub.Publish("categories.changed", nil)
}
