package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/cart"
	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/delivery"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/payment"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
	"github.com/nepalmeatshop/backend/internal/infrastructure/telemetry"
)

// OrderService handles checkout and the order lifecycle. Checkout
// turns a session cart into a persisted order atomically; stock is
// validated twice, once against the cart for friendly errors and once
// under row locks inside the transaction.
type OrderService struct {
	orderRepo       order.OrderRepository
	checkoutStore   order.CheckoutStore
	cartRepo        cart.CartRepository
	productRepo     catalog.ProductRepository
	areaRepo        delivery.AreaRepository
	gatewayRepo     payment.GatewayRepository
	chargeCalc      *delivery.ChargeCalculator
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.OrderRepository,
	checkoutStore order.CheckoutStore,
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	areaRepo delivery.AreaRepository,
	gatewayRepo payment.GatewayRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		checkoutStore: checkoutStore,
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		areaRepo:      areaRepo,
		gatewayRepo:   gatewayRepo,
		chargeCalc:    delivery.NewChargeCalculator(),
		logger:        logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Checkout places an order from the session cart
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, sessionID string, req CheckoutRequest) (*OrderResponse, error) {
	method := payment.Method(req.PaymentMethod)
	if err := s.checkPaymentMethod(ctx, method); err != nil {
		return nil, err
	}

	c, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrCartEmpty
		}
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrCartEmpty
	}
	if err := c.AttachUser(userID); err != nil {
		return nil, err
	}

	products, err := s.validateCartLines(ctx, c)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(userID, method.String(), req.DeliveryAddress, req.DeliveryPhone)
	if err != nil {
		return nil, err
	}
	for _, item := range c.Items {
		product := products[item.ProductID]
		if _, err := o.AddItem(product.ID, product.Name, product.NameNepali, item.QuantityKg, product.PriceMoney()); err != nil {
			return nil, err
		}
	}

	area, err := s.resolveArea(ctx, req.DeliveryAreaID, o.Subtotal)
	if err != nil {
		return nil, err
	}
	if area != nil {
		if err := o.SetDeliveryArea(area.ID); err != nil {
			return nil, err
		}
	}
	charge := s.chargeCalc.ChargeFor(o.Subtotal, area)
	if err := o.SetDeliveryCharge(valueobject.NewMoneyNPR(charge)); err != nil {
		return nil, err
	}

	if req.RequestedDeliveryAt != nil {
		if err := o.SetRequestedDelivery(*req.RequestedDeliveryAt); err != nil {
			return nil, err
		}
	}
	if req.SpecialInstructions != "" {
		o.SetSpecialInstructions(req.SpecialInstructions)
	}

	if err := o.Place(); err != nil {
		return nil, err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()

	if err := s.checkoutStore.PlaceOrder(ctx, o, events); err != nil {
		return nil, err
	}

	// The cart served its purpose; losing this delete only leaves a
	// stale cart behind, so it must not fail the checkout.
	if err := s.cartRepo.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithRevenue(ctx, o.PaymentMethod, o.TotalAmount)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("payment_method", o.PaymentMethod),
		zap.String("total", o.TotalAmount.String()))

	return ToOrderResponse(o), nil
}

// GetForUser retrieves an order, restricted to its owner unless the
// caller is an admin
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}
	return ToOrderResponse(o), nil
}

// GetByID retrieves an order for the back office
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// ListMine returns the calling user's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*OrderListResult, error) {
	domainFilter := toDomainFilter(filter)
	orders, err := s.orderRepo.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toListResult(orders, total), nil
}

// List returns orders matching the filter for the back office
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*OrderListResult, error) {
	domainFilter := toDomainFilter(filter)
	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return toListResult(orders, total), nil
}

// Cancel cancels an order and restocks its items, restricted to the
// owner unless the caller is an admin
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}

	if err := o.Cancel(reason); err != nil {
		return nil, err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()

	if err := s.checkoutStore.CancelOrder(ctx, o, events); err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("reason", reason))

	return ToOrderResponse(o), nil
}

// UpdateStatus moves an order through its lifecycle (back office).
// Cancellation goes through the restocking path and requires a reason.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.Status(req.Status)
	if target == order.StatusCancelled {
		if strings.TrimSpace(req.Reason) == "" {
			return nil, shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
		}
		return s.Cancel(ctx, uuid.Nil, orderID, req.Reason, true)
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()

	if err := s.orderRepo.SaveWithEvents(ctx, o, events); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("status", string(o.Status)))

	return ToOrderResponse(o), nil
}

// UpdatePaymentStatus settles or resets an order's payment state (back office)
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch order.PaymentStatus(req.PaymentStatus) {
	case order.PaymentStatusPaid:
		err = o.MarkPaid(req.TransactionID)
	case order.PaymentStatusFailed:
		err = o.MarkPaymentFailed(req.TransactionID)
	case order.PaymentStatusRefunded:
		err = o.MarkRefunded()
	case order.PaymentStatusPending:
		err = o.SetPaymentStatus(order.PaymentStatusPending)
	default:
		err = shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status: "+req.PaymentStatus)
	}
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order payment status updated",
		zap.String("order_id", o.ID.String()),
		zap.String("payment_status", string(o.PaymentStatus)))

	return ToOrderResponse(o), nil
}

// checkPaymentMethod verifies the method is known and enabled
func (s *OrderService) checkPaymentMethod(ctx context.Context, method payment.Method) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+method.String())
	}
	gateway, err := s.gatewayRepo.FindByMethod(ctx, method)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "Payment method is not available")
		}
		return err
	}
	if !gateway.Enabled {
		return shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "Payment method is not available")
	}
	return nil
}

// validateCartLines checks every cart line against live products and
// returns the products keyed by ID. All offending lines are reported
// together so the shopper can fix the cart in one pass.
func (s *OrderService) validateCartLines(ctx context.Context, c *cart.Cart) (map[uuid.UUID]*catalog.Product, error) {
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

	var offending []string
	for _, item := range c.Items {
		product, ok := byID[item.ProductID]
		switch {
		case !ok || !product.IsActive():
			name := item.ProductID.String()
			if ok {
				name = product.DisplayName()
			}
			offending = append(offending, fmt.Sprintf("%s: no longer available", name))
		case item.QuantityKg.LessThan(product.MinOrderKg):
			offending = append(offending, fmt.Sprintf("%s: minimum order is %s kg",
				product.DisplayName(), product.MinOrderKg.String()))
		case item.QuantityKg.GreaterThan(product.StockKg):
			offending = append(offending, fmt.Sprintf("%s: only %s kg available",
				product.DisplayName(), product.StockKg.String()))
		}
	}
	if len(offending) > 0 {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Some items can no longer be fulfilled: "+strings.Join(offending, "; "))
	}

	return byID, nil
}

// resolveArea loads and checks the chosen delivery area, if any
func (s *OrderService) resolveArea(ctx context.Context, areaID *uuid.UUID, subtotal decimal.Decimal) (*delivery.Area, error) {
	if areaID == nil {
		return nil, nil
	}

	area, err := s.areaRepo.FindByID(ctx, *areaID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_DELIVERY_AREA", "Delivery area not found")
		}
		return nil, err
	}
	if !area.Active {
		return nil, shared.NewDomainError("INVALID_DELIVERY_AREA", "Delivery area is not serviceable")
	}
	if !area.MeetsMinimum(subtotal) {
		return nil, shared.NewDomainError("BELOW_AREA_MINIMUM",
			fmt.Sprintf("Minimum order for %s is Rs. %s", area.DisplayName(), area.MinOrderAmount.String()))
	}
	return area, nil
}

// toDomainFilter maps an API filter to a repository filter
func toDomainFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}
	if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}

	return domainFilter
}

func toListResult(orders []order.Order, total int64) *OrderListResult {
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToOrderResponse(&orders[i]))
	}
	return &OrderListResult{Items: items, Total: total}
}
