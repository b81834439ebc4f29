package database

import (
	"errors"

	"warehouse-backend/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Product{},
		&model.Customer{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.InvoiceDraft{},
		&model.InvoiceDraftItem{},
		&model.StockMovement{},
		&model.ChatMessage{},
		&model.AppSettings{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to auto-migrate models")
	}

	return db, nil
}

// seedUser describes one entry of the static role table.
type seedUser struct {
	name     string
	username string
	password string
	role     string
}

// Seed creates the static role table and default categories on first run.
// Existing rows are never touched.
func Seed(db *gorm.DB) error {
	users := []seedUser{
		{name: "System Administrator", username: "Admin", password: "Admin", role: model.RoleAdmin},
		{name: "Sales Specialist", username: "Seller", password: "Seller", role: model.RoleSales},
		{name: "Warehouse Keeper", username: "Warehouse", password: "Warehouse", role: model.RoleStockman},
	}

	for _, u := range users {
		var existing model.User
		err := db.Where("username = ?", u.username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := db.Create(&model.User{
			Name:     u.name,
			Username: u.username,
			Password: string(hash),
			Role:     u.role,
		}).Error; err != nil {
			return err
		}
		log.Info().Str("username", u.username).Str("role", u.role).Msg("seeded user")
	}

	for _, name := range []string{"Computer Parts", "Accessories", "Network Equipment"} {
		var existing model.Category
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&model.Category{Name: name}).Error; err != nil {
			return err
		}
	}

	// Settings singleton
	var settings model.AppSettings
	if err := db.First(&settings).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&model.AppSettings{}).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}
