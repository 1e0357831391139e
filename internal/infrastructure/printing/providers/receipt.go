package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/printing"
	infra "github.com/nepalmeatshop/backend/internal/infrastructure/printing"
)

// ReceiptProvider implements DataProvider for the RECEIPT document type.
// The document ID is the order ID so receipts print straight from the order
// without waiting for an invoice.
type ReceiptProvider struct {
	orderRepo order.OrderRepository
	userRepo  identity.UserRepository
	shop      infra.ShopInfo
}

// NewReceiptProvider creates a new ReceiptProvider.
func NewReceiptProvider(
	orderRepo order.OrderRepository,
	userRepo identity.UserRepository,
	shop infra.ShopInfo,
) *ReceiptProvider {
	return &ReceiptProvider{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		shop:      shop,
	}
}

// GetDocType returns the document type this provider handles.
func (p *ReceiptProvider) GetDocType() printing.DocType {
	return printing.DocTypeReceipt
}

// GetData retrieves order data for receipt rendering.
func (p *ReceiptProvider) GetData(ctx context.Context, documentID uuid.UUID) (*infra.DocumentData, error) {
	// Load the order
	ord, err := p.orderRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	// Resolve the customer name, the slip still prints if the account is gone
	customerName := ""
	if user, err := p.userRepo.FindByID(ctx, ord.UserID); err == nil {
		customerName = user.DisplayName()
	}

	// Build document data
	docData := infra.NewDocumentData(printing.DocTypeReceipt, ord.ID, ord.OrderNumber, p.shop)

	// Build receipt lines, compact for 80mm paper
	items := make([]infra.ReceiptItemData, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = infra.ReceiptItemData{
			Name:      item.ProductName,
			Line:      fmt.Sprintf("%s x %s", formatQuantity(item.QuantityKg), infra.FormatMoneyValue(item.PricePerKg)),
			LineTotal: item.LineTotal,
		}
	}

	receiptData := infra.ReceiptData{
		OrderNumber:    ord.OrderNumber,
		OrderDate:      ord.CreatedAt.Format("2006-01-02"),
		OrderTime:      ord.CreatedAt.Format("15:04"),
		CustomerName:   customerName,
		CustomerPhone:  ord.DeliveryPhone,
		PaymentMethod:  ord.PaymentMethod,
		PaymentStatus:  string(ord.PaymentStatus),
		Items:          items,
		Subtotal:       ord.Subtotal,
		DeliveryCharge: ord.DeliveryCharge,
		Total:          ord.TotalAmount,
		ItemCount:      len(ord.Items),
	}

	docData.Document = receiptData

	return docData, nil
}
