package delivery

import (
	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeArea = "DeliveryArea"

// Event type constants
const (
	EventTypeAreaCreated       = "DeliveryAreaCreated"
	EventTypeAreaUpdated       = "DeliveryAreaUpdated"
	EventTypeAreaStatusChanged = "DeliveryAreaStatusChanged"
)

// AreaCreatedEvent is published when a delivery area is created
type AreaCreatedEvent struct {
	shared.BaseDomainEvent
	AreaID uuid.UUID `json:"area_id"`
	Name   string    `json:"name"`
}

// NewAreaCreatedEvent creates a new AreaCreatedEvent
func NewAreaCreatedEvent(a *Area) *AreaCreatedEvent {
	return &AreaCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAreaCreated, AggregateTypeArea, a.ID),
		AreaID:          a.ID,
		Name:            a.Name,
	}
}

// AreaUpdatedEvent is published when area details change
type AreaUpdatedEvent struct {
	shared.BaseDomainEvent
	AreaID uuid.UUID `json:"area_id"`
	Name   string    `json:"name"`
}

// NewAreaUpdatedEvent creates a new AreaUpdatedEvent
func NewAreaUpdatedEvent(a *Area) *AreaUpdatedEvent {
	return &AreaUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAreaUpdated, AggregateTypeArea, a.ID),
		AreaID:          a.ID,
		Name:            a.Name,
	}
}

// AreaStatusChangedEvent is published when an area is activated or deactivated
type AreaStatusChangedEvent struct {
	shared.BaseDomainEvent
	AreaID uuid.UUID `json:"area_id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// NewAreaStatusChangedEvent creates a new AreaStatusChangedEvent
func NewAreaStatusChangedEvent(a *Area) *AreaStatusChangedEvent {
	return &AreaStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAreaStatusChanged, AggregateTypeArea, a.ID),
		AreaID:          a.ID,
		Name:            a.Name,
		Active:          a.Active,
	}
}
