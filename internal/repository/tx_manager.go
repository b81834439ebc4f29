package repository

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey carries the open transaction through the context. A struct key
// cannot collide with keys defined elsewhere.
type txContextKey struct{}

// TransactionManager runs a function with every repository call inside it
// sharing one database transaction. Stock adjustments pair a product update
// with a ledger entry and must land atomically, which is why the services
// never talk to gorm transactions directly.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// GetDB resolves the handle a repository should use: the transaction bound to
// ctx when one is open, the root connection otherwise.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
