package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/printing"
)

// DataProvider is the interface for providing document data for template rendering.
// Each document type should have its own implementation.
type DataProvider interface {
	// GetDocType returns the document type this provider handles
	GetDocType() printing.DocType
	// GetData retrieves the document data for rendering
	// documentID is the ID of the document to render
	GetData(ctx context.Context, documentID uuid.UUID) (*DocumentData, error)
}

// DocumentData is the common structure for all document data used in templates.
// It contains both common metadata and document-specific data.
type DocumentData struct {
	// Common metadata
	Meta DocumentMeta `json:"meta"`

	// Shop identity printed in the document header
	Shop ShopInfo `json:"shop"`

	// Document-specific data (InvoiceData, ReceiptData, etc.)
	Document interface{} `json:"document"`

	// Print info
	PrintedAt   string `json:"printed_at"`
	PrintedDate string `json:"printed_date"`
	PrintedTime string `json:"printed_time"`
}

// DocumentMeta contains common document metadata
type DocumentMeta struct {
	DocType        printing.DocType `json:"doc_type"`
	DocTypeName    string           `json:"doc_type_name"`
	DocumentID     uuid.UUID        `json:"document_id"`
	DocumentNumber string           `json:"document_number"`
	Title          string           `json:"title"`
}

// ShopInfo describes the business issuing the document
type ShopInfo struct {
	Name       string `json:"name"`
	NameNepali string `json:"name_nepali"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Website    string `json:"website"`
	PANNumber  string `json:"pan_number"`
	LogoURL    string `json:"logo_url"`
}

// CustomerInfo describes the customer the document is addressed to
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SignatureArea represents a signature section on a printed document
type SignatureArea struct {
	Label  string `json:"label"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Signed bool   `json:"signed"`
}

// NewDocumentData creates a DocumentData with common fields populated
func NewDocumentData(docType printing.DocType, documentID uuid.UUID, documentNumber string, shop ShopInfo) *DocumentData {
	now := time.Now()
	return &DocumentData{
		Meta: DocumentMeta{
			DocType:        docType,
			DocTypeName:    docType.DisplayName(),
			DocumentID:     documentID,
			DocumentNumber: documentNumber,
			Title:          docType.DisplayName(),
		},
		Shop:        shop,
		PrintedAt:   now.Format("2006-01-02 15:04:05"),
		PrintedDate: now.Format("2006-01-02"),
		PrintedTime: now.Format("15:04:05"),
	}
}

// =============================================================================
// Invoice Data Structures
// =============================================================================

// InvoiceData represents a tax invoice for template rendering
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	OrderNumber   string       `json:"order_number"`
	OrderDate     string       `json:"order_date"`
	Customer      CustomerInfo `json:"customer"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	TransactionID string `json:"transaction_id"`

	Items []InvoiceItemData `json:"items"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TaxRate        string          `json:"tax_rate"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
	TotalInWords   string          `json:"total_in_words"`

	IsPaid bool   `json:"is_paid"`
	Notes  string `json:"notes"`

	SignatureAreas []SignatureArea `json:"signature_areas"`
}

// InvoiceItemData represents an invoice line item
type InvoiceItemData struct {
	Index             int             `json:"index"`
	ProductName       string          `json:"product_name"`
	ProductNameNepali string          `json:"product_name_nepali"`
	Quantity          string          `json:"quantity"`
	PricePerKg        decimal.Decimal `json:"price_per_kg"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// =============================================================================
// Receipt Data Structures
// =============================================================================

// ReceiptData represents a thermal receipt slip for template rendering
type ReceiptData struct {
	OrderNumber   string `json:"order_number"`
	OrderDate     string `json:"order_date"`
	OrderTime     string `json:"order_time"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`

	Items []ReceiptItemData `json:"items"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int             `json:"item_count"`
}

// ReceiptItemData represents a receipt line, compact for 80mm paper
type ReceiptItemData struct {
	Name      string          `json:"name"`
	Line      string          `json:"line"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// =============================================================================
// Formatting Helpers
// =============================================================================

// FormatMoneyValue formats a decimal as a display money string with currency prefix
func FormatMoneyValue(d decimal.Decimal) string {
	return "NPR " + formatMoneyRaw(d)
}

// AmountInWords converts a money value to its word form for invoice totals
func AmountInWords(d decimal.Decimal) string {
	return amountInWords(d)
}
