package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/cart"
	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// CartService handles session cart operations. Every mutation is
// validated against the live product, and every read re-checks lines
// so the cart never shows something that can no longer be bought.
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns the priced cart for a session. Lines whose product has
// vanished or gone inactive are dropped, persisted, and reported back
// in PrunedItems so the storefront can tell the shopper.
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, c)
}

// AddItem adds a product to the cart, accumulating onto an existing
// line. The resulting quantity must satisfy the product's minimum
// order and fit within live stock.
func (s *CartService) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*CartResponse, error) {
	c, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.findSellableProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	resulting := req.QuantityKg
	if existing := c.FindItem(req.ProductID); existing != nil {
		resulting = existing.QuantityKg.Add(req.QuantityKg)
	}
	if err := validateQuantity(product, resulting); err != nil {
		return nil, err
	}

	if _, err := c.AddItem(req.ProductID, req.QuantityKg); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Debug("Cart item added",
		zap.String("session_id", sessionID),
		zap.String("product_id", req.ProductID.String()),
		zap.String("quantity_kg", resulting.String()))

	return s.buildResponse(ctx, c)
}

// UpdateItem replaces the quantity of an existing cart line
func (s *CartService) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.findSellableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := validateQuantity(product, req.QuantityKg); err != nil {
		return nil, err
	}

	if err := c.SetItemQuantity(productID, req.QuantityKg); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, c)
}

// RemoveItem deletes a single line from the cart
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, c)
}

// Clear empties the session's cart
func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartResponse, error) {
	if err := s.cartRepo.Delete(ctx, sessionID); err != nil {
		return nil, err
	}

	s.logger.Debug("Cart cleared", zap.String("session_id", sessionID))

	return emptyResponse(), nil
}

// loadCart fetches the session's cart, creating a fresh one when the
// session has no cart yet
func (s *CartService) loadCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.cartRepo.Find(ctx, sessionID)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return cart.NewCart(sessionID)
	}
	return nil, err
}

// requireCart fetches the session's cart, translating a missing cart
// into an item-level not-found since the caller is addressing a line
func (s *CartService) requireCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in cart")
		}
		return nil, err
	}
	return c, nil
}

// findSellableProduct loads a product and checks it can be sold
func (s *CartService) findSellableProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_NOT_AVAILABLE", "Product is not available for sale")
	}
	return product, nil
}

// validateQuantity checks a resulting line quantity against the live
// product's minimum order and stock
func validateQuantity(product *catalog.Product, quantityKg decimal.Decimal) error {
	if quantityKg.LessThan(product.MinOrderKg) {
		return shared.NewDomainError("BELOW_MINIMUM_ORDER",
			fmt.Sprintf("Minimum order for %s is %s kg", product.DisplayName(), product.MinOrderKg.String()))
	}
	if quantityKg.GreaterThan(product.StockKg) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Only %s kg of %s in stock", product.StockKg.String(), product.DisplayName()))
	}
	return nil
}

// buildResponse prices the cart against live products, pruning lines
// whose product has vanished or gone inactive
func (s *CartService) buildResponse(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	if c.IsEmpty() {
		return emptyResponse(), nil
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]CartItemResponse, 0, len(c.Items))
	var pruned []PrunedItemResponse
	var prunedIDs []uuid.UUID
	subtotal := valueobject.ZeroNPR()
	totalKg := decimal.Zero

	for _, item := range c.Items {
		product, ok := byID[item.ProductID]
		switch {
		case !ok:
			pruned = append(pruned, PrunedItemResponse{
				ProductID:  item.ProductID,
				QuantityKg: item.QuantityKg,
				Reason:     PruneReasonRemoved,
			})
			prunedIDs = append(prunedIDs, item.ProductID)
		case !product.IsActive():
			pruned = append(pruned, PrunedItemResponse{
				ProductID:  item.ProductID,
				QuantityKg: item.QuantityKg,
				Reason:     PruneReasonInactive,
			})
			prunedIDs = append(prunedIDs, item.ProductID)
		default:
			lineTotal := product.PriceMoney().Multiply(item.QuantityKg).RoundPaisa()
			subtotal = subtotal.MustAdd(lineTotal)
			totalKg = totalKg.Add(item.QuantityKg)
			items = append(items, CartItemResponse{
				ProductID:   product.ID,
				Name:        product.Name,
				NameNepali:  product.NameNepali,
				DisplayName: product.DisplayName(),
				ImageURL:    product.ImageURL,
				MeatType:    string(product.MeatType),
				PricePerKg:  product.PricePerKg,
				QuantityKg:  item.QuantityKg,
				LineTotal:   lineTotal.Amount(),
				MinOrderKg:  product.MinOrderKg,
				StockStatus: product.StockStatus(),
				AddedAt:     item.AddedAt,
			})
		}
	}

	if len(prunedIDs) > 0 {
		c.RemoveItems(prunedIDs)
		if err := s.cartRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		s.logger.Info("Pruned unavailable cart items",
			zap.String("session_id", c.SessionID),
			zap.Int("pruned", len(prunedIDs)))
	}

	updatedAt := c.UpdatedAt
	return &CartResponse{
		Items:       items,
		PrunedItems: pruned,
		ItemCount:   len(items),
		TotalKg:     totalKg,
		Subtotal:    subtotal.Amount(),
		Currency:    string(subtotal.Currency()),
		UpdatedAt:   &updatedAt,
	}, nil
}

func emptyResponse() *CartResponse {
	return &CartResponse{
		Items:    []CartItemResponse{},
		TotalKg:  decimal.Zero,
		Subtotal: decimal.Zero,
		Currency: string(valueobject.NPR),
	}
}
