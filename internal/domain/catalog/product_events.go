package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductUpdated       = "ProductUpdated"
	EventTypeProductStatusChanged = "ProductStatusChanged"
	EventTypeProductPriceChanged  = "ProductPriceChanged"
	EventTypeProductStockChanged  = "ProductStockChanged"
	EventTypeProductStockLow      = "ProductStockLow"
	EventTypeProductDeleted       = "ProductDeleted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	NameNepali string    `json:"name_nepali,omitempty"`
	MeatType   MeatType  `json:"meat_type"`
	CategoryID uuid.UUID `json:"category_id"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		NameNepali:      product.NameNepali,
		MeatType:        product.MeatType,
		CategoryID:      product.CategoryID,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	NameNepali string    `json:"name_nepali,omitempty"`
	CategoryID uuid.UUID `json:"category_id"`
	Featured   bool      `json:"featured"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		NameNepali:      product.NameNepali,
		CategoryID:      product.CategoryID,
		Featured:        product.Featured,
	}
}

// ProductStatusChangedEvent is published when a product's status changes
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID     `json:"product_id"`
	Name      string        `json:"name"`
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(product *Product, oldStatus, newStatus ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ProductPriceChangedEvent is published when a product's per-kg price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	OldPricePerKg decimal.Decimal `json:"old_price_per_kg"`
	NewPricePerKg decimal.Decimal `json:"new_price_per_kg"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		OldPricePerKg:   oldPrice,
		NewPricePerKg:   product.PricePerKg,
	}
}

// ProductStockChangedEvent is published whenever stock moves in either direction
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	OldStockKg decimal.Decimal `json:"old_stock_kg"`
	NewStockKg decimal.Decimal `json:"new_stock_kg"`
}

// NewProductStockChangedEvent creates a new ProductStockChangedEvent
func NewProductStockChangedEvent(product *Product, oldStock decimal.Decimal) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		OldStockKg:      oldStock,
		NewStockKg:      product.StockKg,
	}
}

// ProductStockLowEvent is published when stock crosses the low threshold from above
type ProductStockLowEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	NameNepali  string          `json:"name_nepali,omitempty"`
	StockKg     decimal.Decimal `json:"stock_kg"`
	ThresholdKg decimal.Decimal `json:"threshold_kg"`
}

// NewProductStockLowEvent creates a new ProductStockLowEvent
func NewProductStockLowEvent(product *Product) *ProductStockLowEvent {
	return &ProductStockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockLow, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		NameNepali:      product.NameNepali,
		StockKg:         product.StockKg,
		ThresholdKg:     LowStockThresholdKg,
	}
}

// ProductDeletedEvent is published when a product is deleted
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		CategoryID:      product.CategoryID,
	}
}
