package service

import (
	"context"
	"fmt"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"
)

// Backup is a full snapshot of the operational collections. User records
// carry their bcrypt hashes so a restored system keeps the same credentials.
type Backup struct {
	ExportedAt time.Time        `json:"exported_at"`
	Products   []model.Product  `json:"products"`
	Categories []model.Category `json:"categories"`
	Customers  []model.Customer `json:"customers"`
	Invoices   []model.Invoice  `json:"invoices"`
	Users      []BackupUser     `json:"users"`
}

// BackupUser mirrors model.User with the password hash included, which the
// regular JSON shape of User deliberately hides.
type BackupUser struct {
	model.User
	PasswordHash string `json:"password_hash"`
}

type BackupService interface {
	Export(ctx context.Context, actor Actor) (*Backup, error)
	Import(ctx context.Context, actor Actor, backup *Backup) error
}

type backupService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	userRepo     repository.UserRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewBackupService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BackupService {
	return &backupService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *backupService) Export(ctx context.Context, actor Actor) (*Backup, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	backup := Backup{ExportedAt: time.Now()}
	var err error

	if backup.Products, err = s.productRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export products: %w", err)
	}
	if backup.Categories, err = s.categoryRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export categories: %w", err)
	}
	if backup.Customers, err = s.customerRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export customers: %w", err)
	}
	if backup.Invoices, err = s.invoiceRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export invoices: %w", err)
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	backup.Users = make([]BackupUser, 0, len(users))
	for _, u := range users {
		backup.Users = append(backup.Users, BackupUser{User: u, PasswordHash: u.Password})
	}

	return &backup, nil
}

// Import replaces every collection with the snapshot's contents in a single
// transaction, so the system is never left with a partial restore.
func (s *backupService) Import(ctx context.Context, actor Actor, backup *Backup) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if backup == nil {
		return fmt.Errorf("%w: empty backup", ErrInvalidInput)
	}
	if len(backup.Users) == 0 {
		return fmt.Errorf("%w: backup contains no users", ErrInvalidInput)
	}

	users := make([]model.User, 0, len(backup.Users))
	for _, bu := range backup.Users {
		u := bu.User
		if bu.PasswordHash != "" {
			u.Password = bu.PasswordHash
		}
		if u.Password == "" {
			return fmt.Errorf("%w: user %q has no password hash", ErrInvalidInput, u.Username)
		}
		users = append(users, u)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.categoryRepo.ReplaceAll(txCtx, backup.Categories); err != nil {
			return fmt.Errorf("failed to import categories: %w", err)
		}
		if err := s.productRepo.ReplaceAll(txCtx, backup.Products); err != nil {
			return fmt.Errorf("failed to import products: %w", err)
		}
		if err := s.customerRepo.ReplaceAll(txCtx, backup.Customers); err != nil {
			return fmt.Errorf("failed to import customers: %w", err)
		}
		if err := s.invoiceRepo.ReplaceAll(txCtx, backup.Invoices); err != nil {
			return fmt.Errorf("failed to import invoices: %w", err)
		}
		if err := s.userRepo.ReplaceAll(txCtx, users); err != nil {
			return fmt.Errorf("failed to import users: %w", err)
		}
		return writeAuditEntry(txCtx, s.auditRepo, actor, model.ActionImportBackup, "", "backup", map[string]interface{}{
			"products":  len(backup.Products),
			"customers": len(backup.Customers),
			"invoices":  len(backup.Invoices),
			"users":     len(users),
		})
	})
	return err
}
