package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order with its items by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByUser finds a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll finds all orders matching the filter.
	// Filter keys: status, payment_status, payment_method, user_id.
	// Search matches order number, delivery phone, and delivery address.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders in a given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Order, error)

	// FindPlacedBetween finds orders placed in a half-open time range
	FindPlacedBetween(ctx context.Context, from, to time.Time) ([]Order, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, o *Order) error

	// SaveWithEvents saves the order and writes the given events to the
	// outbox in the same transaction
	SaveWithEvents(ctx context.Context, o *Order, events []shared.DomainEvent) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByUser counts a user's orders
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountByStatus counts orders in a given status
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
