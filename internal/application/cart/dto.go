package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prune reasons reported when a cart line is dropped on read
const (
	PruneReasonRemoved  = "product_removed"
	PruneReasonInactive = "product_inactive"
)

// AddItemRequest represents the payload for adding a product to the cart
type AddItemRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	QuantityKg decimal.Decimal `json:"quantity_kg" binding:"required,weightstep"`
}

// UpdateItemRequest represents the payload for changing a cart line quantity
type UpdateItemRequest struct {
	QuantityKg decimal.Decimal `json:"quantity_kg" binding:"required,weightstep"`
}

// CartItemResponse is a cart line priced against the live product
type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	NameNepali  string          `json:"name_nepali,omitempty"`
	DisplayName string          `json:"display_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	MeatType    string          `json:"meat_type"`
	PricePerKg  decimal.Decimal `json:"price_per_kg"`
	QuantityKg  decimal.Decimal `json:"quantity_kg"`
	LineTotal   decimal.Decimal `json:"line_total"`
	MinOrderKg  decimal.Decimal `json:"min_order_kg"`
	StockStatus string          `json:"stock_status"`
	AddedAt     time.Time       `json:"added_at"`
}

// PrunedItemResponse reports a line dropped because its product vanished
// or is no longer for sale
type PrunedItemResponse struct {
	ProductID  uuid.UUID       `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	Reason     string          `json:"reason"`
}

// CartResponse represents the priced cart returned to the storefront
type CartResponse struct {
	Items       []CartItemResponse   `json:"items"`
	PrunedItems []PrunedItemResponse `json:"pruned_items,omitempty"`
	ItemCount   int                  `json:"item_count"`
	TotalKg     decimal.Decimal      `json:"total_kg"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	Currency    string               `json:"currency"`
	UpdatedAt   *time.Time           `json:"updated_at,omitempty"`
}
