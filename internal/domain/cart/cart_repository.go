package cart

import (
	"context"
	"time"
)

// CartRepository defines the interface for session cart storage.
// Implementations refresh the TTL on every save.
type CartRepository interface {
	// Find returns the cart for a session, or shared.ErrNotFound if none exists
	Find(ctx context.Context, sessionID string) (*Cart, error)

	// Save stores the cart and refreshes its TTL
	Save(ctx context.Context, cart *Cart) error

	// Delete removes the cart for a session
	Delete(ctx context.Context, sessionID string) error

	// Touch refreshes the TTL without modifying the cart
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
}
