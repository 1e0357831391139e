package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/billing"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/printing"
	infra "github.com/nepalmeatshop/backend/internal/infrastructure/printing"
)

// InvoiceProvider implements DataProvider for the INVOICE document type.
// It loads invoice and order data from repositories for use in print templates.
type InvoiceProvider struct {
	invoiceRepo billing.InvoiceRepository
	orderRepo   order.OrderRepository
	shop        infra.ShopInfo
}

// NewInvoiceProvider creates a new InvoiceProvider.
func NewInvoiceProvider(
	invoiceRepo billing.InvoiceRepository,
	orderRepo order.OrderRepository,
	shop infra.ShopInfo,
) *InvoiceProvider {
	return &InvoiceProvider{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		shop:        shop,
	}
}

// GetDocType returns the document type this provider handles.
func (p *InvoiceProvider) GetDocType() printing.DocType {
	return printing.DocTypeInvoice
}

// GetData retrieves invoice data for rendering.
func (p *InvoiceProvider) GetData(ctx context.Context, documentID uuid.UUID) (*infra.DocumentData, error) {
	// Load the invoice
	inv, err := p.invoiceRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	// Load the order for its line items and payment details
	ord, err := p.orderRepo.FindByID(ctx, inv.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	// Build document data
	docData := infra.NewDocumentData(printing.DocTypeInvoice, inv.ID, inv.InvoiceNumber, p.shop)

	// Build invoice items
	items := make([]infra.InvoiceItemData, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = infra.InvoiceItemData{
			Index:             i + 1,
			ProductName:       item.ProductName,
			ProductNameNepali: item.ProductNameNepali,
			Quantity:          formatQuantity(item.QuantityKg),
			PricePerKg:        item.PricePerKg,
			LineTotal:         item.LineTotal,
		}
	}

	invoiceData := infra.InvoiceData{
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		OrderNumber:   inv.OrderNumber,
		OrderDate:     ord.CreatedAt.Format("2006-01-02"),
		Customer: infra.CustomerInfo{
			Name:    inv.CustomerName,
			Phone:   inv.CustomerPhone,
			Address: inv.DeliveryAddress,
		},
		PaymentMethod:  ord.PaymentMethod,
		PaymentStatus:  string(ord.PaymentStatus),
		TransactionID:  ord.TransactionID,
		Items:          items,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		TaxRate:        billing.VATRate.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%",
		DeliveryCharge: inv.DeliveryCharge,
		Total:          inv.Total,
		TotalInWords:   infra.AmountInWords(inv.Total),
		IsPaid:         inv.IsPaid,
		Notes:          inv.Notes,
		SignatureAreas: []infra.SignatureArea{
			{Label: "तयार गर्ने / Prepared by"},
			{Label: "बुझ्ने / Received by"},
		},
	}

	docData.Document = invoiceData

	return docData, nil
}

// formatQuantity formats a kilogram quantity for display
func formatQuantity(q decimal.Decimal) string {
	return q.String() + " kg"
}
