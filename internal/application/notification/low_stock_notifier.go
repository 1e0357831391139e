package notification

import (
	"context"

	"github.com/nepalmeatshop/backend/internal/application/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/notification"
)

// AdminLowStockNotifier routes low stock notices to the shop staff
// through the low_stock templates. It plugs into the inventory side's
// alert handler, which has already applied the cooldown.
type AdminLowStockNotifier struct {
	dispatcher Dispatcher
	admin      Recipient
}

// NewAdminLowStockNotifier creates a notifier addressing the shop's
// admin contact
func NewAdminLowStockNotifier(dispatcher Dispatcher, adminEmail, adminPhone string) *AdminLowStockNotifier {
	return &AdminLowStockNotifier{
		dispatcher: dispatcher,
		admin:      Recipient{Name: "Admin", Email: adminEmail, Phone: adminPhone},
	}
}

// NotifyLowStock dispatches the low stock alert
func (n *AdminLowStockNotifier) NotifyLowStock(ctx context.Context, notice inventory.LowStockNotice) error {
	data := map[string]any{
		"product_name": notice.Name,
		"name_nepali":  notice.NameNepali,
		"stock_kg":     notice.StockKg.String(),
		"threshold_kg": notice.ThresholdKg.String(),
	}
	return n.dispatcher.Dispatch(ctx, notification.EventKeyLowStock, n.admin, data, nil)
}

var _ inventory.LowStockNotifier = (*AdminLowStockNotifier)(nil)
