package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/inventory"
)

// AdjustStockRequest represents an admin stock correction. Positive
// delta adds stock, negative removes it.
type AdjustStockRequest struct {
	DeltaKg decimal.Decimal `json:"delta_kg" binding:"required"`
	Reason  string          `json:"reason" binding:"required,max=500"`
}

// ConfigureAlertRequest represents the admin payload for a product's
// low-stock alert settings
type ConfigureAlertRequest struct {
	ThresholdKg *decimal.Decimal `json:"threshold_kg"`
	Active      *bool            `json:"active"`
}

// LedgerFilter represents pagination for a product's movement ledger
type LedgerFilter struct {
	Page     int `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// AdjustmentResponse reports the outcome of a stock correction
type AdjustmentResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	DeltaKg     decimal.Decimal `json:"delta_kg"`
	StockKg     decimal.Decimal `json:"stock_kg"`
	Reason      string          `json:"reason"`
}

// StockTransactionResponse represents one movement ledger row
type StockTransactionResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	DeltaKg   decimal.Decimal `json:"delta_kg"`
	ResultKg  decimal.Decimal `json:"result_kg"`
	Reason    string          `json:"reason"`
	Note      string          `json:"note,omitempty"`
	ActorID   *uuid.UUID      `json:"actor_id,omitempty"`
	OrderID   *uuid.UUID      `json:"order_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerResult carries a page of ledger rows plus the total count
type LedgerResult struct {
	Items []StockTransactionResponse `json:"items"`
	Total int64                      `json:"total"`
}

// StockAlertResponse represents a product's alert configuration joined
// with its current stock level
type StockAlertResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	NameNepali  string          `json:"name_nepali,omitempty"`
	StockKg     decimal.Decimal `json:"stock_kg"`
	ThresholdKg decimal.Decimal `json:"threshold_kg"`
	Active      bool            `json:"active"`
	LastSentAt  *time.Time      `json:"last_sent_at,omitempty"`
}

// SweepResult reports what a low-stock sweep found
type SweepResult struct {
	Checked int `json:"checked"`
	Raised  int `json:"raised"`
}

// ToStockTransactionResponse converts a ledger row to its API shape
func ToStockTransactionResponse(txn *inventory.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:        txn.ID,
		ProductID: txn.ProductID,
		DeltaKg:   txn.DeltaKg,
		ResultKg:  txn.ResultKg,
		Reason:    txn.Reason.String(),
		Note:      txn.Note,
		ActorID:   txn.ActorID,
		OrderID:   txn.OrderID,
		CreatedAt: txn.CreatedAt,
	}
}

// ToStockAlertResponse converts an alert to its API shape. The product
// may be nil when it was deleted after the alert was configured.
func ToStockAlertResponse(alert *inventory.StockAlert, product *catalog.Product) StockAlertResponse {
	resp := StockAlertResponse{
		ID:          alert.ID,
		ProductID:   alert.ProductID,
		ThresholdKg: alert.ThresholdKg,
		Active:      alert.Active,
		LastSentAt:  alert.LastSentAt,
	}
	if product != nil {
		resp.ProductName = product.Name
		resp.NameNepali = product.NameNepali
		resp.StockKg = product.StockKg
	}
	return resp
}
