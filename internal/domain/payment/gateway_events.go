package payment

import (
	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeGateway = "PaymentGateway"

// Event type constants
const (
	EventTypeGatewayCreated       = "PaymentGatewayCreated"
	EventTypeGatewayUpdated       = "PaymentGatewayUpdated"
	EventTypeGatewayStatusChanged = "PaymentGatewayStatusChanged"
)

// GatewayCreatedEvent is published when a gateway configuration is created
type GatewayCreatedEvent struct {
	shared.BaseDomainEvent
	GatewayID uuid.UUID `json:"gateway_id"`
	Method    Method    `json:"method"`
	Name      string    `json:"name"`
}

// NewGatewayCreatedEvent creates a new GatewayCreatedEvent
func NewGatewayCreatedEvent(g *Gateway) *GatewayCreatedEvent {
	return &GatewayCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGatewayCreated, AggregateTypeGateway, g.ID),
		GatewayID:       g.ID,
		Method:          g.Method,
		Name:            g.Name,
	}
}

// GatewayUpdatedEvent is published when display fields change
type GatewayUpdatedEvent struct {
	shared.BaseDomainEvent
	GatewayID uuid.UUID `json:"gateway_id"`
	Method    Method    `json:"method"`
	Name      string    `json:"name"`
}

// NewGatewayUpdatedEvent creates a new GatewayUpdatedEvent
func NewGatewayUpdatedEvent(g *Gateway) *GatewayUpdatedEvent {
	return &GatewayUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGatewayUpdated, AggregateTypeGateway, g.ID),
		GatewayID:       g.ID,
		Method:          g.Method,
		Name:            g.Name,
	}
}

// GatewayStatusChangedEvent is published when a gateway is enabled or disabled
type GatewayStatusChangedEvent struct {
	shared.BaseDomainEvent
	GatewayID uuid.UUID `json:"gateway_id"`
	Method    Method    `json:"method"`
	Enabled   bool      `json:"enabled"`
}

// NewGatewayStatusChangedEvent creates a new GatewayStatusChangedEvent
func NewGatewayStatusChangedEvent(g *Gateway) *GatewayStatusChangedEvent {
	return &GatewayStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGatewayStatusChanged, AggregateTypeGateway, g.ID),
		GatewayID:       g.ID,
		Method:          g.Method,
		Enabled:         g.Enabled,
	}
}
