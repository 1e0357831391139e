package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockAlertRepository defines the interface for stock alert persistence
type StockAlertRepository interface {
	// FindByID finds an alert by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAlert, error)

	// FindByProduct finds the alert configured for a product, if any
	FindByProduct(ctx context.Context, productID uuid.UUID) (*StockAlert, error)

	// FindActive returns all active alerts
	FindActive(ctx context.Context) ([]*StockAlert, error)

	// FindAll returns all alerts
	FindAll(ctx context.Context) ([]*StockAlert, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *StockAlert) error

	// Delete removes an alert
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockTransactionRepository defines the interface for the movement ledger.
// The ledger is append-only; rows are never updated or deleted.
type StockTransactionRepository interface {
	// Append records a stock movement
	Append(ctx context.Context, txn *StockTransaction) error

	// AppendAll records several movements in one batch
	AppendAll(ctx context.Context, txns []*StockTransaction) error

	// FindByProduct returns a product's movements, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*StockTransaction, int64, error)

	// FindByOrder returns the movements linked to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*StockTransaction, error)

	// FindRecent returns the latest movements across every product
	FindRecent(ctx context.Context, limit int) ([]*StockTransaction, error)
}
