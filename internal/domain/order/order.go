package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// IsValid checks if the status is a known order status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusOutForDelivery
	case StatusOutForDelivery:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents the settlement state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Item is a line item snapshotting product details at order time
type Item struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	ProductNameNepali string          `gorm:"type:varchar(200)"`
	QuantityKg        decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	PricePerKg        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt         time.Time       `gorm:""`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates a line item from live product details
func NewItem(orderID, productID uuid.UUID, name, nameNepali string, quantityKg decimal.Decimal, pricePerKg valueobject.Money) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantityKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if pricePerKg.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per kg cannot be negative")
	}

	return &Item{
		ID:                uuid.New(),
		OrderID:           orderID,
		ProductID:         productID,
		ProductName:       name,
		ProductNameNepali: nameNepali,
		QuantityKg:        quantityKg,
		PricePerKg:        pricePerKg.Amount(),
		LineTotal:         quantityKg.Mul(pricePerKg.Amount()).Round(2),
		CreatedAt:         time.Now(),
	}, nil
}

// LineTotalMoney returns the line total as Money
func (i *Item) LineTotalMoney() valueobject.Money {
	return valueobject.NewMoneyNPR(i.LineTotal)
}

// Order represents a customer order from checkout to delivery.
// It is the aggregate root for the order lifecycle.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber         string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status              Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DeliveryCharge      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod       string          `gorm:"type:varchar(30);not null"`
	PaymentStatus       PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	TransactionID       string          `gorm:"type:varchar(100);index"`
	DeliveryAddress     string          `gorm:"type:text;not null"`
	DeliveryPhone       string          `gorm:"type:varchar(20);not null"`
	DeliveryAreaID      *uuid.UUID      `gorm:"type:uuid;index"`
	RequestedDeliveryAt *time.Time      `gorm:""`
	SpecialInstructions string          `gorm:"type:text"`
	Items               []Item          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ConfirmedAt         *time.Time      `gorm:""`
	DeliveredAt         *time.Time      `gorm:""`
	CancelledAt         *time.Time      `gorm:""`
	CancelReason        string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// GenerateOrderNumber builds an order number of the form
// MO20250101150405A1B2C3 (prefix, timestamp, 6 random hex chars).
func GenerateOrderNumber() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("MO%s%s", time.Now().Format("20060102150405"), strings.ToUpper(hex.EncodeToString(buf)))
}

// NewOrder creates a pending order for a user
func NewOrder(userID uuid.UUID, paymentMethod, deliveryAddress, deliveryPhone string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}
	if strings.TrimSpace(deliveryAddress) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery address cannot be empty")
	}
	if strings.TrimSpace(deliveryPhone) == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Delivery phone cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       GenerateOrderNumber(),
		UserID:            userID,
		Status:            StatusPending,
		Subtotal:          decimal.Zero,
		DeliveryCharge:    decimal.Zero,
		TotalAmount:       decimal.Zero,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     PaymentStatusPending,
		DeliveryAddress:   strings.TrimSpace(deliveryAddress),
		DeliveryPhone:     strings.TrimSpace(deliveryPhone),
		Items:             make([]Item, 0),
	}

	return order, nil
}

// AddItem snapshots a product line onto the order.
// Only allowed while the order is pending and unplaced.
func (o *Order) AddItem(productID uuid.UUID, name, nameNepali string, quantityKg decimal.Decimal, pricePerKg valueobject.Money) (*Item, error) {
	if o.Status != StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	item, err := NewItem(o.ID, productID, name, nameNepali, quantityKg, pricePerKg)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// SetDeliveryArea records the chosen delivery area
func (o *Order) SetDeliveryArea(areaID uuid.UUID) error {
	if areaID == uuid.Nil {
		return shared.NewDomainError("INVALID_DELIVERY_AREA", "Delivery area ID cannot be empty")
	}

	o.DeliveryAreaID = &areaID
	o.UpdatedAt = time.Now()

	return nil
}

// SetDeliveryCharge sets the resolved delivery charge
func (o *Order) SetDeliveryCharge(charge valueobject.Money) error {
	if charge.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_CHARGE", "Delivery charge cannot be negative")
	}

	o.DeliveryCharge = charge.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetRequestedDelivery records the customer's requested delivery time
func (o *Order) SetRequestedDelivery(at time.Time) error {
	if at.Before(time.Now()) {
		return shared.NewDomainError("INVALID_DELIVERY_DATE", "Requested delivery time cannot be in the past")
	}

	o.RequestedDeliveryAt = &at
	o.UpdatedAt = time.Now()

	return nil
}

// SetSpecialInstructions records free-text delivery instructions
func (o *Order) SetSpecialInstructions(instructions string) {
	o.SpecialInstructions = strings.TrimSpace(instructions)
	o.UpdatedAt = time.Now()
}

// Place finalizes a pending order at the end of checkout.
// Requires at least one item; publishes OrderPlaced.
func (o *Order) Place() error {
	if o.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending order can be placed")
	}
	if len(o.Items) == 0 {
		return shared.ErrCartEmpty
	}
	if o.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}

	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return nil
}

// Confirm transitions the order from pending to confirmed
func (o *Order) Confirm() error {
	return o.transitionTo(StatusConfirmed)
}

// StartProcessing transitions the order from confirmed to processing
func (o *Order) StartProcessing() error {
	return o.transitionTo(StatusProcessing)
}

// DispatchForDelivery transitions the order from processing to out for delivery
func (o *Order) DispatchForDelivery() error {
	return o.transitionTo(StatusOutForDelivery)
}

// MarkDelivered transitions the order to delivered.
// Cash-on-delivery orders settle on delivery.
func (o *Order) MarkDelivered() error {
	if err := o.transitionTo(StatusDelivered); err != nil {
		return err
	}

	if o.PaymentMethod == "cod" && o.PaymentStatus == PaymentStatusPending {
		o.PaymentStatus = PaymentStatusPaid
	}

	return nil
}

// TransitionTo moves the order to the target status, validating the transition
func (o *Order) TransitionTo(target Status) error {
	if target == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Use Cancel to cancel an order")
	}
	if target == StatusDelivered {
		return o.MarkDelivered()
	}
	return o.transitionTo(target)
}

func (o *Order) transitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = target

	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	}

	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, target))

	return nil
}

// Cancel cancels a pending or confirmed order.
// Stock restocking is handled by the application service.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = strings.TrimSpace(reason)
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, oldStatus))

	return nil
}

// MarkPaid records a successful payment
func (o *Order) MarkPaid(transactionID string) error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid")
	}
	if o.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot settle a cancelled order")
	}

	o.PaymentStatus = PaymentStatusPaid
	o.TransactionID = transactionID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkPaymentFailed records a failed payment attempt
func (o *Order) MarkPaymentFailed(transactionID string) error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid")
	}

	o.PaymentStatus = PaymentStatusFailed
	o.TransactionID = transactionID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkRefunded records a refund against a paid order
func (o *Order) MarkRefunded() error {
	if o.PaymentStatus != PaymentStatusPaid {
		return shared.NewDomainError("NOT_PAID", "Only a paid order can be refunded")
	}

	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetPaymentStatus force-sets the payment status (admin back-office)
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status: %s", status))
	}

	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// recalculateTotals recomputes subtotal and grand total from the lines
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Add(o.DeliveryCharge)
}

// SubtotalMoney returns the item subtotal as Money
func (o *Order) SubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyNPR(o.Subtotal)
}

// DeliveryChargeMoney returns the delivery charge as Money
func (o *Order) DeliveryChargeMoney() valueobject.Money {
	return valueobject.NewMoneyNPR(o.DeliveryCharge)
}

// TotalMoney returns the grand total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyNPR(o.TotalAmount)
}

// ItemCount returns the number of lines on the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalKg returns the summed weight across all lines
func (o *Order) TotalKg() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.QuantityKg)
	}
	return total
}

// IsPaid returns true if payment has settled
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsCancellable returns true if the order may still be cancelled
func (o *Order) IsCancellable() bool {
	return o.Status.CanTransitionTo(StatusCancelled)
}

// IsDelivered returns true if the order reached the customer
func (o *Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}

// BelongsTo returns true if the order is owned by the given user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}
