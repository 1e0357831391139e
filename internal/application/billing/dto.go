package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/billing"
)

// UpdateInvoiceRequest represents the admin payload for correcting an invoice
type UpdateInvoiceRequest struct {
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
	IsPaid *bool   `json:"is_paid"`
}

// InvoiceListFilter represents filter options for invoice lists
type InvoiceListFilter struct {
	Keyword  string     `form:"keyword" binding:"omitempty,max=100"`
	IsPaid   *bool      `form:"is_paid"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DeliveryCharge  decimal.Decimal `json:"delivery_charge"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes,omitempty"`
	IsPaid          bool            `json:"is_paid"`
	InvoiceDate     time.Time       `json:"invoice_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// InvoiceListResult carries a page of invoices plus the total count
type InvoiceListResult struct {
	Items []InvoiceResponse `json:"items"`
	Total int64             `json:"total"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		OrderID:         inv.OrderID,
		OrderNumber:     inv.OrderNumber,
		CustomerName:    inv.CustomerName,
		CustomerPhone:   inv.CustomerPhone,
		DeliveryAddress: inv.DeliveryAddress,
		Subtotal:        inv.Subtotal,
		TaxAmount:       inv.TaxAmount,
		DeliveryCharge:  inv.DeliveryCharge,
		Total:           inv.Total,
		Notes:           inv.Notes,
		IsPaid:          inv.IsPaid,
		InvoiceDate:     inv.InvoiceDate,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}
