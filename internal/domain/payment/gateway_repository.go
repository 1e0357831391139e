package payment

import (
	"context"

	"github.com/google/uuid"
)

// GatewayRepository defines the interface for payment gateway persistence
type GatewayRepository interface {
	// FindByID finds a gateway by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Gateway, error)

	// FindByMethod finds the gateway configured for a payment method
	FindByMethod(ctx context.Context, method Method) (*Gateway, error)

	// FindAll returns all gateways ordered by sort order
	FindAll(ctx context.Context) ([]*Gateway, error)

	// FindEnabled returns enabled gateways ordered by sort order
	FindEnabled(ctx context.Context) ([]*Gateway, error)

	// Save creates or updates a gateway
	Save(ctx context.Context, gateway *Gateway) error

	// Delete removes a gateway
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByMethod checks whether a gateway exists for a method
	ExistsByMethod(ctx context.Context, method Method) (bool, error)
}
