package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/order"
)

// CheckoutRequest represents the payload for placing an order from the cart
type CheckoutRequest struct {
	PaymentMethod       string     `json:"payment_method" binding:"required,oneof=cod esewa khalti phonepay mobile_banking bank_transfer"`
	DeliveryAddress     string     `json:"delivery_address" binding:"required,max=500"`
	DeliveryPhone       string     `json:"delivery_phone" binding:"required,nepaliphone"`
	DeliveryAreaID      *uuid.UUID `json:"delivery_area_id"`
	RequestedDeliveryAt *time.Time `json:"requested_delivery_at"`
	SpecialInstructions string     `json:"special_instructions" binding:"omitempty,max=1000"`
}

// CancelOrderRequest represents the payload for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// UpdateStatusRequest represents the admin payload for moving an order
// through its lifecycle. Reason is required when cancelling.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed processing out_for_delivery delivered cancelled"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// UpdatePaymentStatusRequest represents the admin payload for settling payment state
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending paid failed refunded"`
	TransactionID string `json:"transaction_id" binding:"omitempty,max=100"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed processing out_for_delivery delivered cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
	PaymentMethod string     `form:"payment_method" binding:"omitempty,oneof=cod esewa khalti phonepay mobile_banking bank_transfer"`
	UserID        *uuid.UUID `form:"user_id"`
	Search        string     `form:"search"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents a snapshotted order line
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductNameNepali string          `json:"product_name_nepali,omitempty"`
	QuantityKg        decimal.Decimal `json:"quantity_kg"`
	PricePerKg        decimal.Decimal `json:"price_per_kg"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	OrderNumber         string              `json:"order_number"`
	UserID              uuid.UUID           `json:"user_id"`
	Status              string              `json:"status"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	DeliveryCharge      decimal.Decimal     `json:"delivery_charge"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	PaymentMethod       string              `json:"payment_method"`
	PaymentStatus       string              `json:"payment_status"`
	TransactionID       string              `json:"transaction_id,omitempty"`
	DeliveryAddress     string              `json:"delivery_address"`
	DeliveryPhone       string              `json:"delivery_phone"`
	DeliveryAreaID      *uuid.UUID          `json:"delivery_area_id,omitempty"`
	RequestedDeliveryAt *time.Time          `json:"requested_delivery_at,omitempty"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	Items               []OrderItemResponse `json:"items"`
	ItemCount           int                 `json:"item_count"`
	TotalKg             decimal.Decimal     `json:"total_kg"`
	ConfirmedAt         *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt         *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt         *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason        string              `json:"cancel_reason,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	Version             int                 `json:"version"`
}

// OrderListResult carries a page of orders plus the total count
type OrderListResult struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
}

// ToOrderItemResponse converts a domain Item to OrderItemResponse
func ToOrderItemResponse(item *order.Item) OrderItemResponse {
	return OrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		ProductNameNepali: item.ProductNameNepali,
		QuantityKg:        item.QuantityKg,
		PricePerKg:        item.PricePerKg,
		LineTotal:         item.LineTotal,
	}
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, ToOrderItemResponse(&o.Items[i]))
	}

	return &OrderResponse{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		UserID:              o.UserID,
		Status:              string(o.Status),
		Subtotal:            o.Subtotal,
		DeliveryCharge:      o.DeliveryCharge,
		TotalAmount:         o.TotalAmount,
		PaymentMethod:       o.PaymentMethod,
		PaymentStatus:       string(o.PaymentStatus),
		TransactionID:       o.TransactionID,
		DeliveryAddress:     o.DeliveryAddress,
		DeliveryPhone:       o.DeliveryPhone,
		DeliveryAreaID:      o.DeliveryAreaID,
		RequestedDeliveryAt: o.RequestedDeliveryAt,
		SpecialInstructions: o.SpecialInstructions,
		Items:               items,
		ItemCount:           o.ItemCount(),
		TotalKg:             o.TotalKg(),
		ConfirmedAt:         o.ConfirmedAt,
		DeliveredAt:         o.DeliveredAt,
		CancelledAt:         o.CancelledAt,
		CancelReason:        o.CancelReason,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		Version:             o.Version,
	}
}
