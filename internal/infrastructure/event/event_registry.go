package event

import (
	"github.com/nepalmeatshop/backend/internal/domain/billing"
	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/delivery"
	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/payment"
	"github.com/nepalmeatshop/backend/internal/domain/printing"
	"github.com/nepalmeatshop/backend/internal/domain/review"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Order events
	serializer.Register("OrderPlaced", &order.OrderPlacedEvent{})
	serializer.Register("OrderStatusChanged", &order.OrderStatusChangedEvent{})
	serializer.Register("OrderCancelled", &order.OrderCancelledEvent{})

	// Catalog domain - Category events
	serializer.Register("CategoryCreated", &catalog.CategoryCreatedEvent{})
	serializer.Register("CategoryUpdated", &catalog.CategoryUpdatedEvent{})
	serializer.Register("CategoryStatusChanged", &catalog.CategoryStatusChangedEvent{})
	serializer.Register("CategoryDeleted", &catalog.CategoryDeletedEvent{})

	// Catalog domain - Product events
	serializer.Register("ProductCreated", &catalog.ProductCreatedEvent{})
	serializer.Register("ProductUpdated", &catalog.ProductUpdatedEvent{})
	serializer.Register("ProductStatusChanged", &catalog.ProductStatusChangedEvent{})
	serializer.Register("ProductPriceChanged", &catalog.ProductPriceChangedEvent{})
	serializer.Register("ProductStockChanged", &catalog.ProductStockChangedEvent{})
	serializer.Register("ProductStockLow", &catalog.ProductStockLowEvent{})
	serializer.Register("ProductDeleted", &catalog.ProductDeletedEvent{})

	// Catalog domain - Product attachment events
	serializer.Register("ProductAttachmentCreated", &catalog.ProductAttachmentCreatedEvent{})
	serializer.Register("ProductAttachmentConfirmed", &catalog.ProductAttachmentConfirmedEvent{})
	serializer.Register("ProductAttachmentDeleted", &catalog.ProductAttachmentDeletedEvent{})
	serializer.Register("ProductAttachmentTypeChanged", &catalog.ProductAttachmentTypeChangedEvent{})

	// Identity domain - User events
	serializer.Register("UserRegistered", &identity.UserRegisteredEvent{})
	serializer.Register("UserPasswordChanged", &identity.UserPasswordChangedEvent{})
	serializer.Register("UserStatusChanged", &identity.UserStatusChangedEvent{})

	// Billing domain - Invoice events
	serializer.Register("InvoiceGenerated", &billing.InvoiceGeneratedEvent{})
	serializer.Register("InvoicePaid", &billing.InvoicePaidEvent{})

	// Delivery domain - Area events
	serializer.Register("DeliveryAreaCreated", &delivery.AreaCreatedEvent{})
	serializer.Register("DeliveryAreaUpdated", &delivery.AreaUpdatedEvent{})
	serializer.Register("DeliveryAreaStatusChanged", &delivery.AreaStatusChangedEvent{})

	// Payment domain - Gateway events
	serializer.Register("PaymentGatewayCreated", &payment.GatewayCreatedEvent{})
	serializer.Register("PaymentGatewayUpdated", &payment.GatewayUpdatedEvent{})
	serializer.Register("PaymentGatewayStatusChanged", &payment.GatewayStatusChangedEvent{})

	// Review domain events
	serializer.Register("ReviewSubmitted", &review.ReviewSubmittedEvent{})
	serializer.Register("ReviewModerated", &review.ReviewModeratedEvent{})

	// Printing domain - Template events
	serializer.Register("PrintTemplateCreated", &printing.PrintTemplateCreatedEvent{})
	serializer.Register("PrintTemplateUpdated", &printing.PrintTemplateUpdatedEvent{})
	serializer.Register("PrintTemplateStatusChanged", &printing.PrintTemplateStatusChangedEvent{})
	serializer.Register("PrintTemplateSetAsDefault", &printing.PrintTemplateSetAsDefaultEvent{})

	// Printing domain - Job events
	serializer.Register("PrintJobCreated", &printing.PrintJobCreatedEvent{})
	serializer.Register("PrintJobStatusChanged", &printing.PrintJobStatusChangedEvent{})
	serializer.Register("PrintJobCompleted", &printing.PrintJobCompletedEvent{})
	serializer.Register("PrintJobFailed", &printing.PrintJobFailedEvent{})
}
