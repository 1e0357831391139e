package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its invoice number
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindByOrder finds the invoice issued for an order, if any
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Invoice, error)

	// FindAll returns invoices matching the filter with a total count
	FindAll(ctx context.Context, filter InvoiceFilter) ([]*Invoice, int64, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// Count returns the total number of invoices
	Count(ctx context.Context) (int64, error)
}

// InvoiceFilter describes the query parameters for listing invoices
type InvoiceFilter struct {
	Keyword  string
	IsPaid   *bool
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// DefaultInvoiceFilter returns a filter with sane pagination defaults
func DefaultInvoiceFilter() InvoiceFilter {
	return InvoiceFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithKeyword searches invoice and order numbers plus customer name
func (f InvoiceFilter) WithKeyword(keyword string) InvoiceFilter {
	f.Keyword = keyword
	return f
}

// WithPaid restricts the filter by paid flag
func (f InvoiceFilter) WithPaid(paid bool) InvoiceFilter {
	f.IsPaid = &paid
	return f
}

// WithDateRange restricts the filter to invoices dated within [from, to)
func (f InvoiceFilter) WithDateRange(from, to time.Time) InvoiceFilter {
	f.From = &from
	f.To = &to
	return f
}

// Offset returns the pagination offset
func (f InvoiceFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the pagination limit capped at 100
func (f InvoiceFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
