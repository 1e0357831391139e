package billing

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// VATRate is the Nepali value added tax applied at invoicing
var VATRate = decimal.NewFromFloat(0.13)

// Invoice is the tax document issued for a delivered or paid order.
// Each order carries at most one invoice; amounts are frozen at
// generation time so later price edits never touch issued paper.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber   string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber     string          `gorm:"type:varchar(30);not null"`
	CustomerName    string          `gorm:"type:varchar(100);not null"`
	CustomerPhone   string          `gorm:"type:varchar(20)"`
	DeliveryAddress string          `gorm:"type:varchar(500)"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DeliveryCharge  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Notes           string          `gorm:"type:text"`
	IsPaid          bool            `gorm:"not null;default:false"`
	InvoiceDate     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// GenerateInvoiceNumber produces a unique invoice number in the format
// INV + yyyymmddhhmmss + 4 uppercase hex characters.
func GenerateInvoiceNumber() string {
	b := make([]byte, 2)
	_, _ = rand.Read(b)
	return "INV" + time.Now().Format("20060102150405") + strings.ToUpper(hex.EncodeToString(b))
}

// NewInvoice creates an invoice for an order. Tax is 13% VAT on the
// item subtotal; the delivery charge is passed through as the order
// stored it.
func NewInvoice(orderID uuid.UUID, orderNumber, customerName, customerPhone, deliveryAddress string, subtotal, deliveryCharge decimal.Decimal) (*Invoice, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID is required")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order number is required")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice subtotal must be positive")
	}
	if deliveryCharge.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Delivery charge cannot be negative")
	}

	tax := subtotal.Mul(VATRate).Round(2)

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     GenerateInvoiceNumber(),
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		CustomerName:      customerName,
		CustomerPhone:     customerPhone,
		DeliveryAddress:   deliveryAddress,
		Subtotal:          subtotal.Round(2),
		TaxAmount:         tax,
		DeliveryCharge:    deliveryCharge.Round(2),
		Total:             subtotal.Add(tax).Add(deliveryCharge).Round(2),
		InvoiceDate:       time.Now(),
	}

	invoice.AddDomainEvent(NewInvoiceGeneratedEvent(invoice))

	return invoice, nil
}

// SetNotes replaces the free-form notes printed under the totals
func (i *Invoice) SetNotes(notes string) error {
	if len(notes) > 2000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 2000 characters")
	}

	i.Notes = notes
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkPaid flags the invoice as settled
func (i *Invoice) MarkPaid() error {
	if i.IsPaid {
		return shared.NewDomainError("ALREADY_PAID", "Invoice is already marked paid")
	}

	i.IsPaid = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// MarkUnpaid clears the paid flag after a bookkeeping correction
func (i *Invoice) MarkUnpaid() error {
	if !i.IsPaid {
		return shared.NewDomainError("NOT_PAID", "Invoice is not marked paid")
	}

	i.IsPaid = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}
