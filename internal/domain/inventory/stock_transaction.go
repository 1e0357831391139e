package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// TxnReason classifies a stock movement
type TxnReason string

const (
	// TxnReasonOrderDeduction is stock leaving for a placed order
	TxnReasonOrderDeduction TxnReason = "order_deduction"
	// TxnReasonCancellationRestock is stock returning from a cancelled order
	TxnReasonCancellationRestock TxnReason = "cancellation_restock"
	// TxnReasonAdminAdjustment is a manual correction by an admin
	TxnReasonAdminAdjustment TxnReason = "admin_adjustment"
	// TxnReasonImport is stock loaded through a CSV import
	TxnReasonImport TxnReason = "csv_import"
)

// IsValid returns true if the reason is valid
func (r TxnReason) IsValid() bool {
	switch r {
	case TxnReasonOrderDeduction, TxnReasonCancellationRestock, TxnReasonAdminAdjustment, TxnReasonImport:
		return true
	default:
		return false
	}
}

// String returns the string representation of TxnReason
func (r TxnReason) String() string {
	return string(r)
}

// StockTransaction is one row of the append-only stock movement ledger.
// DeltaKg is negative for outgoing stock; ResultKg is the product's
// stock level after the movement was applied.
type StockTransaction struct {
	shared.BaseEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeltaKg   decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	ResultKg  decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	Reason    TxnReason       `gorm:"type:varchar(30);not null"`
	Note      string          `gorm:"type:varchar(500)"`
	ActorID   *uuid.UUID      `gorm:"type:uuid"`
	OrderID   *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction records a single stock movement
func NewStockTransaction(productID uuid.UUID, deltaKg, resultKg decimal.Decimal, reason TxnReason, note string) (*StockTransaction, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if deltaKg.IsZero() {
		return nil, shared.NewDomainError("INVALID_DELTA", "Stock movement cannot be zero")
	}
	if resultKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RESULT", "Resulting stock cannot be negative")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown stock movement reason: "+string(reason))
	}
	if len(note) > 500 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 500 characters")
	}

	return &StockTransaction{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		DeltaKg:    deltaKg,
		ResultKg:   resultKg,
		Reason:     reason,
		Note:       note,
	}, nil
}

// WithActor attributes the movement to an admin user
func (t *StockTransaction) WithActor(actorID uuid.UUID) *StockTransaction {
	t.ActorID = &actorID
	return t
}

// WithOrder links the movement to the order that caused it
func (t *StockTransaction) WithOrder(orderID uuid.UUID) *StockTransaction {
	t.OrderID = &orderID
	return t
}

// IsInbound returns true for movements that add stock
func (t *StockTransaction) IsInbound() bool {
	return t.DeltaKg.IsPositive()
}
