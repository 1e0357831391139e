package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Item is a single product line in a cart.
// Product details are not snapshotted; the cart is always priced
// against live catalog state when read.
type Item struct {
	ProductID  uuid.UUID       `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	AddedAt    time.Time       `json:"added_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Cart holds a shopper's selection keyed by browser session.
// It lives in Redis, not the database, and is serialized as JSON.
type Cart struct {
	SessionID string     `json:"session_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Items     []Item     `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for the given session
func NewCart(sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	now := time.Now()
	return &Cart{
		SessionID: sessionID,
		Items:     make([]Item, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddItem adds the given quantity of a product, accumulating onto an
// existing line if one is present. Returns the resulting line quantity.
func (c *Cart) AddItem(productID uuid.UUID, quantityKg decimal.Decimal) (decimal.Decimal, error) {
	if productID == uuid.Nil {
		return decimal.Zero, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantityKg.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].QuantityKg = c.Items[idx].QuantityKg.Add(quantityKg)
			c.Items[idx].UpdatedAt = now
			c.UpdatedAt = now
			return c.Items[idx].QuantityKg, nil
		}
	}

	c.Items = append(c.Items, Item{
		ProductID:  productID,
		QuantityKg: quantityKg,
		AddedAt:    now,
		UpdatedAt:  now,
	})
	c.UpdatedAt = now

	return quantityKg, nil
}

// SetItemQuantity replaces the quantity of an existing line
func (c *Cart) SetItemQuantity(productID uuid.UUID, quantityKg decimal.Decimal) error {
	if quantityKg.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			now := time.Now()
			c.Items[idx].QuantityKg = quantityKg
			c.Items[idx].UpdatedAt = now
			c.UpdatedAt = now
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")
}

// RemoveItem removes a product line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for idx, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")
}

// RemoveItems removes several product lines at once, ignoring missing ones
func (c *Cart) RemoveItems(productIDs []uuid.UUID) {
	if len(productIDs) == 0 {
		return
	}

	drop := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}

	kept := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}

	c.Items = kept
	c.UpdatedAt = time.Now()
}

// Clear removes every line from the cart
func (c *Cart) Clear() {
	c.Items = make([]Item, 0)
	c.UpdatedAt = time.Now()
}

// AttachUser binds the cart to a logged-in user at checkout
func (c *Cart) AttachUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	c.UserID = &userID
	c.UpdatedAt = time.Now()

	return nil
}

// FindItem returns the line for a product, or nil if absent
func (c *Cart) FindItem(productID uuid.UUID) *Item {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of distinct product lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// TotalKg returns the summed weight across all lines
func (c *Cart) TotalKg() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.QuantityKg)
	}
	return total
}
