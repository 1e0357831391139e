package order

import (
	"context"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// CheckoutStore persists order state changes that touch product stock.
// Implementations run each operation in a single database transaction:
// the order rows, the stock updates (validated under row locks), the
// stock ledger entries, and the outbox events commit or roll back
// together.
type CheckoutStore interface {
	// PlaceOrder persists a newly placed order and deducts stock for
	// every line. Lines whose product vanished, went inactive, or lacks
	// stock fail the whole checkout with an error listing each
	// offending line. The given events are written to the outbox along
	// with the stock events raised during deduction.
	PlaceOrder(ctx context.Context, o *Order, events []shared.DomainEvent) error

	// CancelOrder persists a cancelled order and restocks every line,
	// appending restock ledger entries and writing the given events
	// plus the raised stock events to the outbox.
	CancelOrder(ctx context.Context, o *Order, events []shared.DomainEvent) error
}
