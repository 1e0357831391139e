package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// LowStockNotice carries what a low stock alert needs to say
type LowStockNotice struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	NameNepali  string          `json:"name_nepali,omitempty"`
	StockKg     decimal.Decimal `json:"stock_kg"`
	ThresholdKg decimal.Decimal `json:"threshold_kg"`
}

// LowStockNotifier delivers low stock alerts to shop staff
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, notice LowStockNotice) error
}

// StockLowHandler reacts to ProductStockLow events raised by order
// deductions and the scheduled sweep. It applies the per-product alert
// cooldown before handing the notice to the notifier, so a product
// hovering around its threshold does not page anyone twice.
type StockLowHandler struct {
	alertRepo inventory.StockAlertRepository
	notifier  LowStockNotifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockLowHandler creates a new StockLowHandler. The notifier may
// be nil; the alert then only shows up in the logs.
func NewStockLowHandler(alertRepo inventory.StockAlertRepository, notifier LowStockNotifier, logger *zap.Logger) *StockLowHandler {
	return &StockLowHandler{
		alertRepo: alertRepo,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockLowHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductStockLow}
}

// Handle processes a ProductStockLowEvent
func (h *StockLowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	stockEvent, ok := event.(*catalog.ProductStockLowEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductStockLow, event.EventType())
	}

	now := h.now()

	alert, err := h.alertRepo.FindByProduct(ctx, stockEvent.ProductID)
	if errors.Is(err, shared.ErrNotFound) {
		alert, err = inventory.NewStockAlert(stockEvent.ProductID)
	}
	if err != nil {
		return fmt.Errorf("load stock alert: %w", err)
	}

	if !alert.ShouldAlert(stockEvent.StockKg, now) {
		h.logger.Debug("Low stock alert suppressed",
			zap.String("product", stockEvent.Name),
			zap.String("stock_kg", stockEvent.StockKg.String()),
			zap.String("threshold_kg", alert.ThresholdKg.String()))
		return nil
	}

	notice := LowStockNotice{
		ProductID:   stockEvent.ProductID,
		Name:        stockEvent.Name,
		NameNepali:  stockEvent.NameNepali,
		StockKg:     stockEvent.StockKg,
		ThresholdKg: alert.ThresholdKg,
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyLowStock(ctx, notice); err != nil {
			// Leave the cooldown unstarted so the next event or sweep
			// retries the notification
			h.logger.Error("Failed to send low stock alert",
				zap.String("product", notice.Name), zap.Error(err))
			return nil
		}
	} else {
		h.logger.Warn("Low stock",
			zap.String("product", notice.Name),
			zap.String("stock_kg", notice.StockKg.String()),
			zap.String("threshold_kg", notice.ThresholdKg.String()))
	}

	alert.MarkSent(now)
	if err := h.alertRepo.Save(ctx, alert); err != nil {
		h.logger.Error("Failed to record alert cooldown",
			zap.String("product", notice.Name), zap.Error(err))
	}

	return nil
}

var _ shared.EventHandler = (*StockLowHandler)(nil)
