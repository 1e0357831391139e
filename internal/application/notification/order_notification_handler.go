package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/notification"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Dispatcher renders and records notifications for an event
type Dispatcher interface {
	Dispatch(ctx context.Context, eventKey notification.EventKey, rcpt Recipient, data map[string]any, orderID *uuid.UUID) error
}

// OrderNotificationHandler turns order lifecycle events into customer
// notifications. Placement sends the confirmation; status changes and
// cancellations send updates through the status change templates.
type OrderNotificationHandler struct {
	dispatcher Dispatcher
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewOrderNotificationHandler creates a new OrderNotificationHandler
func NewOrderNotificationHandler(dispatcher Dispatcher, userRepo identity.UserRepository, logger *zap.Logger) *OrderNotificationHandler {
	return &OrderNotificationHandler{
		dispatcher: dispatcher,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderCancelled,
	}
}

// Handle processes an order lifecycle event
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		return h.handlePlaced(ctx, e)
	case *order.OrderStatusChangedEvent:
		return h.handleStatusChanged(ctx, e)
	case *order.OrderCancelledEvent:
		return h.handleCancelled(ctx, e)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *OrderNotificationHandler) handlePlaced(ctx context.Context, e *order.OrderPlacedEvent) error {
	rcpt, err := h.recipient(ctx, e.UserID)
	if err != nil {
		return err
	}
	data := map[string]any{
		"customer_name":  rcpt.Name,
		"order_number":   e.OrderNumber,
		"total":          "Rs. " + e.TotalAmount.StringFixed(2),
		"item_count":     e.ItemCount,
		"payment_method": e.PaymentMethod,
	}
	return h.dispatcher.Dispatch(ctx, notification.EventKeyOrderPlaced, rcpt, data, &e.OrderID)
}

func (h *OrderNotificationHandler) handleStatusChanged(ctx context.Context, e *order.OrderStatusChangedEvent) error {
	rcpt, err := h.recipient(ctx, e.UserID)
	if err != nil {
		return err
	}
	data := map[string]any{
		"customer_name": rcpt.Name,
		"order_number":  e.OrderNumber,
		"old_status":    e.OldStatus.String(),
		"new_status":    e.NewStatus.String(),
		"reason":        "",
	}
	return h.dispatcher.Dispatch(ctx, notification.EventKeyOrderStatusChange, rcpt, data, &e.OrderID)
}

func (h *OrderNotificationHandler) handleCancelled(ctx context.Context, e *order.OrderCancelledEvent) error {
	rcpt, err := h.recipient(ctx, e.UserID)
	if err != nil {
		return err
	}
	data := map[string]any{
		"customer_name": rcpt.Name,
		"order_number":  e.OrderNumber,
		"old_status":    e.OldStatus.String(),
		"new_status":    order.StatusCancelled.String(),
		"reason":        e.Reason,
	}
	return h.dispatcher.Dispatch(ctx, notification.EventKeyOrderStatusChange, rcpt, data, &e.OrderID)
}

func (h *OrderNotificationHandler) recipient(ctx context.Context, userID uuid.UUID) (Recipient, error) {
	user, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		return Recipient{}, fmt.Errorf("load order customer: %w", err)
	}
	name := user.FullName
	if name == "" {
		name = user.Username
	}
	return Recipient{Name: name, Email: user.Email, Phone: user.Phone}, nil
}

var _ shared.EventHandler = (*OrderNotificationHandler)(nil)
