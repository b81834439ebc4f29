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

type CustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	LocationURL string `json:"location_url"`
}

type CustomerService interface {
	List(ctx context.Context, page, limit int, search string) ([]model.Customer, int64, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
	Create(ctx context.Context, actor Actor, req CustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, actor Actor, id string, req CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *customerService) List(ctx context.Context, page, limit int, search string) ([]model.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.customerRepo.List(ctx, page, limit, search)
}

func (s *customerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	customerID, err := uuid.Parse(id)
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
	return customer, nil
}

func (s *customerService) Create(ctx context.Context, actor Actor, req CustomerRequest) (*model.Customer, error) {
	if actor.IsStockman() {
		return nil, ErrForbidden
	}

	customer := model.Customer{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		LocationURL: req.LocationURL,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.customerRepo.Create(txCtx, &customer); createErr != nil {
			return fmt.Errorf("failed to create customer: %w", createErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, actor, model.ActionCreateCustomer, customer.ID.String(), customer.Name, nil)
	})
	if err != nil {
		return nil, err
	}

	s.publish()
	return &customer, nil
}

func (s *customerService) Update(ctx context.Context, actor Actor, id string, req CustomerRequest) (*model.Customer, error) {
	if actor.IsStockman() {
		return nil, ErrForbidden
	}
	customerID, err := uuid.Parse(id)
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

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.LocationURL = req.LocationURL

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if saveErr := s.customerRepo.Update(txCtx, customer); saveErr != nil {
			return fmt.Errorf("failed to update customer: %w", saveErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, actor, model.ActionUpdateCustomer, customer.ID.String(), customer.Name, nil)
	})
	if err != nil {
		return nil, err
	}

	s.publish()
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	customerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load customer: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.customerRepo.Delete(txCtx, customerID); delErr != nil {
			return fmt.Errorf("failed to delete customer: %w", delErr)
		}
		return writeAuditEntry(txCtx, s.auditRepo, actor, model.ActionDeleteCustomer, customerID.String(), customer.Name, nil)
	})
	if err != nil {
		return err
	}

	s.publish()
	return nil
}

func (s *customerService) publish() {
	if s.hub == nil {
		return
	}
	s.hub.Publish("customers.changed", nil)
}
