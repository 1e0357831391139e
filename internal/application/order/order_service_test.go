package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/cart"
	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/delivery"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/payment"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.Status, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPlacedBetween(ctx context.Context, from, to time.Time) ([]order.Order, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithEvents(ctx context.Context, o *order.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, o, events)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockCheckoutStore is a mock implementation of order.CheckoutStore
type MockCheckoutStore struct {
	mock.Mock
}

func (m *MockCheckoutStore) PlaceOrder(ctx context.Context, o *order.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, o, events)
	return args.Error(0)
}

func (m *MockCheckoutStore) CancelOrder(ctx context.Context, o *order.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, o, events)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Find(ctx context.Context, sessionID string) (*cart.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockCartRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, ttl)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByMeatType(ctx context.Context, meatType catalog.MeatType, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, meatType, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByStatus(ctx context.Context, status catalog.ProductStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockAreaRepository is a mock implementation of delivery.AreaRepository
type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Area, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) FindByName(ctx context.Context, name string) (*delivery.Area, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) FindAll(ctx context.Context) ([]*delivery.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) FindActive(ctx context.Context) ([]*delivery.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) Save(ctx context.Context, area *delivery.Area) error {
	args := m.Called(ctx, area)
	return args.Error(0)
}

func (m *MockAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAreaRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockAreaRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockGatewayRepository is a mock implementation of payment.GatewayRepository
type MockGatewayRepository struct {
	mock.Mock
}

func (m *MockGatewayRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Gateway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Gateway), args.Error(1)
}

func (m *MockGatewayRepository) FindByMethod(ctx context.Context, method payment.Method) (*payment.Gateway, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Gateway), args.Error(1)
}

func (m *MockGatewayRepository) FindAll(ctx context.Context) ([]*payment.Gateway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Gateway), args.Error(1)
}

func (m *MockGatewayRepository) FindEnabled(ctx context.Context) ([]*payment.Gateway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Gateway), args.Error(1)
}

func (m *MockGatewayRepository) Save(ctx context.Context, gateway *payment.Gateway) error {
	args := m.Called(ctx, gateway)
	return args.Error(0)
}

func (m *MockGatewayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGatewayRepository) ExistsByMethod(ctx context.Context, method payment.Method) (bool, error) {
	args := m.Called(ctx, method)
	return args.Bool(0), args.Error(1)
}

type orderServiceMocks struct {
	orderRepo     *MockOrderRepository
	checkoutStore *MockCheckoutStore
	cartRepo      *MockCartRepository
	productRepo   *MockProductRepository
	areaRepo      *MockAreaRepository
	gatewayRepo   *MockGatewayRepository
}

func newTestOrderService() (*OrderService, *orderServiceMocks) {
	m := &orderServiceMocks{
		orderRepo:     new(MockOrderRepository),
		checkoutStore: new(MockCheckoutStore),
		cartRepo:      new(MockCartRepository),
		productRepo:   new(MockProductRepository),
		areaRepo:      new(MockAreaRepository),
		gatewayRepo:   new(MockGatewayRepository),
	}
	service := NewOrderService(
		m.orderRepo,
		m.checkoutStore,
		m.cartRepo,
		m.productRepo,
		m.areaRepo,
		m.gatewayRepo,
		zap.NewNop(),
	)
	return service, m
}

func createSellableProduct(t *testing.T, name, nameNepali string, priceNPR float64, stockKg float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, nameNepali, uuid.New(), catalog.MeatTypeChicken, valueobject.NewMoneyNPRFromFloat(priceNPR))
	require.NoError(t, err)
	weight, err := valueobject.NewWeightFromFloat(stockKg)
	require.NoError(t, err)
	require.NoError(t, product.AddStock(weight))
	product.ClearDomainEvents()
	return product
}

func cartWithLines(t *testing.T, sessionID string, lines map[uuid.UUID]decimal.Decimal) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(sessionID)
	require.NoError(t, err)
	for productID, qty := range lines {
		_, err := c.AddItem(productID, qty)
		require.NoError(t, err)
	}
	return c
}

func enabledGateway(t *testing.T, method payment.Method) *payment.Gateway {
	t.Helper()
	gw, err := payment.NewGateway(method, string(method), "")
	require.NoError(t, err)
	gw.ClearDomainEvents()
	return gw
}

func codCheckoutRequest() CheckoutRequest {
	return CheckoutRequest{
		PaymentMethod:   "cod",
		DeliveryAddress: "Ward 10, Baneshwor, Kathmandu",
		DeliveryPhone:   "9841234567",
	}
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	sessionID := "sess-checkout"

	t.Run("places an order from the cart and clears it", func(t *testing.T) {
		service, m := newTestOrderService()
		product := createSellableProduct(t, "Chicken Breast", "कुखुराको छाती", 450, 10)
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			product.ID: decimal.NewFromInt(2),
		})

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		m.checkoutStore.On("PlaceOrder", ctx, mock.AnythingOfType("*order.Order"), mock.Anything).Return(nil)
		m.cartRepo.On("Delete", ctx, sessionID).Return(nil)

		resp, err := service.Checkout(ctx, userID, sessionID, codCheckoutRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, resp.OrderNumber)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "cod", resp.PaymentMethod)
		assert.Equal(t, "pending", resp.PaymentStatus)
		assert.Len(t, resp.Items, 1)
		assert.True(t, decimal.NewFromInt(900).Equal(resp.Subtotal))
		// 900 is below the reduced tier, so the default charge applies
		assert.True(t, decimal.NewFromInt(50).Equal(resp.DeliveryCharge))
		assert.True(t, decimal.NewFromInt(950).Equal(resp.TotalAmount))
		m.checkoutStore.AssertExpectations(t)
		m.cartRepo.AssertCalled(t, "Delete", ctx, sessionID)
	})

	t.Run("passes the placement events to the store", func(t *testing.T) {
		service, m := newTestOrderService()
		product := createSellableProduct(t, "Goat Leg", "खसीको फिला", 1200, 8)
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			product.ID: decimal.NewFromInt(1),
		})

		var captured []shared.DomainEvent
		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		m.checkoutStore.On("PlaceOrder", ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).([]shared.DomainEvent)
				placed := args.Get(1).(*order.Order)
				assert.Empty(t, placed.GetDomainEvents())
			}).
			Return(nil)
		m.cartRepo.On("Delete", ctx, sessionID).Return(nil)

		_, err := service.Checkout(ctx, userID, sessionID, codCheckoutRequest())

		require.NoError(t, err)
		require.Len(t, captured, 1)
		assert.Equal(t, order.EventTypeOrderPlaced, captured[0].EventType())
	})

	t.Run("free delivery at the high tier", func(t *testing.T) {
		service, m := newTestOrderService()
		product := createSellableProduct(t, "Mutton Curry Cut", "खसीको मासु", 1100, 10)
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			product.ID: decimal.NewFromInt(2),
		})

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		m.checkoutStore.On("PlaceOrder", ctx, mock.Anything, mock.Anything).Return(nil)
		m.cartRepo.On("Delete", ctx, sessionID).Return(nil)

		resp, err := service.Checkout(ctx, userID, sessionID, codCheckoutRequest())

		require.NoError(t, err)
		assert.True(t, resp.DeliveryCharge.IsZero())
		assert.True(t, decimal.NewFromInt(2200).Equal(resp.TotalAmount))
	})

	t.Run("applies the area charge below the tiers", func(t *testing.T) {
		service, m := newTestOrderService()
		product := createSellableProduct(t, "Chicken Wings", "कुखुराको पखेटा", 400, 10)
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			product.ID: decimal.NewFromInt(1),
		})
		area, err := delivery.NewArea("Bhaktapur", "भक्तपुर", decimal.NewFromInt(80))
		require.NoError(t, err)
		area.ClearDomainEvents()

		req := codCheckoutRequest()
		req.DeliveryAreaID = &area.ID

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		m.areaRepo.On("FindByID", ctx, area.ID).Return(area, nil)
		m.checkoutStore.On("PlaceOrder", ctx, mock.Anything, mock.Anything).Return(nil)
		m.cartRepo.On("Delete", ctx, sessionID).Return(nil)

		resp, err := service.Checkout(ctx, userID, sessionID, req)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(80).Equal(resp.DeliveryCharge))
		require.NotNil(t, resp.DeliveryAreaID)
		assert.Equal(t, area.ID, *resp.DeliveryAreaID)
	})

	t.Run("rejects an unknown payment method", func(t *testing.T) {
		service, m := newTestOrderService()
		req := codCheckoutRequest()
		req.PaymentMethod = "paypal"

		_, err := service.Checkout(ctx, userID, sessionID, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)
		m.cartRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})

	t.Run("rejects a disabled payment method", func(t *testing.T) {
		service, m := newTestOrderService()
		gw := enabledGateway(t, payment.MethodEsewa)
		require.NoError(t, gw.Disable())
		gw.ClearDomainEvents()

		req := codCheckoutRequest()
		req.PaymentMethod = "esewa"

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodEsewa).Return(gw, nil)

		_, err := service.Checkout(ctx, userID, sessionID, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PAYMENT_METHOD_UNAVAILABLE", domainErr.Code)
	})

	t.Run("rejects a missing cart as empty", func(t *testing.T) {
		service, m := newTestOrderService()

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(nil, shared.ErrNotFound)

		_, err := service.Checkout(ctx, userID, sessionID, codCheckoutRequest())

		require.ErrorIs(t, err, shared.ErrCartEmpty)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		service, m := newTestOrderService()
		c, err := cart.NewCart(sessionID)
		require.NoError(t, err)

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)

		_, err = service.Checkout(ctx, userID, sessionID, codCheckoutRequest())

		require.ErrorIs(t, err, shared.ErrCartEmpty)
		m.checkoutStore.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reports every offending line at once", func(t *testing.T) {
		service, m := newTestOrderService()
		thin := createSellableProduct(t, "Chicken Breast", "कुखुराको छाती", 450, 1)
		vanished := uuid.New()
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			thin.ID:  decimal.NewFromInt(5),
			vanished: decimal.NewFromInt(1),
		})

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*thin}, nil)

		_, err := service.Checkout(ctx, userID, sessionID, codCheckoutRequest())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, domainErr.Message, "only 1 kg available")
		assert.Contains(t, domainErr.Message, "no longer available")
		m.checkoutStore.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an inactive delivery area", func(t *testing.T) {
		service, m := newTestOrderService()
		product := createSellableProduct(t, "Chicken Breast", "कुखुराको छाती", 450, 10)
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			product.ID: decimal.NewFromInt(1),
		})
		area, err := delivery.NewArea("Kirtipur", "कीर्तिपुर", decimal.NewFromInt(70))
		require.NoError(t, err)
		require.NoError(t, area.Deactivate())

		req := codCheckoutRequest()
		req.DeliveryAreaID = &area.ID

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		m.areaRepo.On("FindByID", ctx, area.ID).Return(area, nil)

		_, err = service.Checkout(ctx, userID, sessionID, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DELIVERY_AREA", domainErr.Code)
	})

	t.Run("enforces the area minimum order amount", func(t *testing.T) {
		service, m := newTestOrderService()
		product := createSellableProduct(t, "Chicken Breast", "कुखुराको छाती", 450, 10)
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			product.ID: decimal.NewFromInt(1),
		})
		area, err := delivery.NewArea("Godawari", "गोदावरी", decimal.NewFromInt(90))
		require.NoError(t, err)
		require.NoError(t, area.SetMinOrderAmount(decimal.NewFromInt(1500)))

		req := codCheckoutRequest()
		req.DeliveryAreaID = &area.ID

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		m.areaRepo.On("FindByID", ctx, area.ID).Return(area, nil)

		_, err = service.Checkout(ctx, userID, sessionID, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BELOW_AREA_MINIMUM", domainErr.Code)
	})

	t.Run("keeps the order when clearing the cart fails", func(t *testing.T) {
		service, m := newTestOrderService()
		product := createSellableProduct(t, "Chicken Breast", "कुखुराको छाती", 450, 10)
		c := cartWithLines(t, sessionID, map[uuid.UUID]decimal.Decimal{
			product.ID: decimal.NewFromInt(1),
		})

		m.gatewayRepo.On("FindByMethod", ctx, payment.MethodCOD).Return(enabledGateway(t, payment.MethodCOD), nil)
		m.cartRepo.On("Find", ctx, sessionID).Return(c, nil)
		m.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)
		m.checkoutStore.On("PlaceOrder", ctx, mock.Anything, mock.Anything).Return(nil)
		m.cartRepo.On("Delete", ctx, sessionID).Return(assert.AnError)

		resp, err := service.Checkout(ctx, userID, sessionID, codCheckoutRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, resp.OrderNumber)
	})
}

func placedOrder(t *testing.T, userID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(userID, "cod", "Ward 10, Baneshwor, Kathmandu", "9841234567")
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Chicken Breast", "कुखुराको छाती", decimal.NewFromInt(2), valueobject.NewMoneyNPRFromFloat(450))
	require.NoError(t, err)
	require.NoError(t, o.SetDeliveryCharge(valueobject.NewMoneyNPRFromFloat(50)))
	require.NoError(t, o.Place())
	o.ClearDomainEvents()
	return o
}

func TestOrderService_GetForUser(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("returns the owner's order", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, owner)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := service.GetForUser(ctx, owner, o.ID, false)

		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
		assert.Equal(t, 1, resp.ItemCount)
	})

	t.Run("hides other users' orders", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, owner)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.GetForUser(ctx, uuid.New(), o.ID, false)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, owner)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := service.GetForUser(ctx, uuid.New(), o.ID, true)

		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
	})
}

func TestOrderService_ListMine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	service, m := newTestOrderService()
	o := placedOrder(t, userID)

	m.orderRepo.On("FindByUser", ctx, userID, mock.Anything).Return([]order.Order{*o}, nil)
	m.orderRepo.On("CountByUser", ctx, userID).Return(int64(1), nil)

	result, err := service.ListMine(ctx, userID, OrderListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, o.OrderNumber, result.Items[0].OrderNumber)

	// Defaults fill in when the caller leaves the filter blank
	filterArg := m.orderRepo.Calls[0].Arguments.Get(2).(shared.Filter)
	assert.Equal(t, 1, filterArg.Page)
	assert.Equal(t, 20, filterArg.PageSize)
	assert.Equal(t, "created_at", filterArg.OrderBy)
	assert.Equal(t, "desc", filterArg.OrderDir)
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	service, m := newTestOrderService()
	o := placedOrder(t, uuid.New())

	m.orderRepo.On("FindAll", ctx, mock.Anything).Return([]order.Order{*o}, nil)
	m.orderRepo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

	result, err := service.List(ctx, OrderListFilter{Status: "pending", PaymentMethod: "cod"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	filterArg := m.orderRepo.Calls[0].Arguments.Get(1).(shared.Filter)
	assert.Equal(t, "pending", filterArg.Filters["status"])
	assert.Equal(t, "cod", filterArg.Filters["payment_method"])
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("owner cancels a pending order through the restocking store", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, owner)

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.checkoutStore.On("CancelOrder", ctx, o, mock.Anything).Return(nil)

		resp, err := service.Cancel(ctx, owner, o.ID, "Changed my mind", false)

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "Changed my mind", resp.CancelReason)
		m.checkoutStore.AssertExpectations(t)
	})

	t.Run("other users cannot cancel", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, owner)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.Cancel(ctx, uuid.New(), o.ID, "Not mine", false)

		require.ErrorIs(t, err, shared.ErrNotFound)
		m.checkoutStore.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivered orders cannot be cancelled", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, owner)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.StartProcessing())
		require.NoError(t, o.DispatchForDelivery())
		require.NoError(t, o.MarkDelivered())
		o.ClearDomainEvents()

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.Cancel(ctx, owner, o.ID, "Too late", false)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms a pending order", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, uuid.New())

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.orderRepo.On("SaveWithEvents", ctx, o, mock.Anything).Return(nil)

		resp, err := service.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "confirmed"})

		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)

		events := m.orderRepo.Calls[1].Arguments.Get(2).([]shared.DomainEvent)
		require.Len(t, events, 1)
		assert.Equal(t, order.EventTypeOrderStatusChanged, events[0].EventType())
	})

	t.Run("rejects skipping lifecycle steps", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, uuid.New())

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "delivered"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		m.orderRepo.AssertNotCalled(t, "SaveWithEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivering a COD order settles its payment", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, uuid.New())
		require.NoError(t, o.Confirm())
		require.NoError(t, o.StartProcessing())
		require.NoError(t, o.DispatchForDelivery())
		o.ClearDomainEvents()

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.orderRepo.On("SaveWithEvents", ctx, o, mock.Anything).Return(nil)

		resp, err := service.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "delivered"})

		require.NoError(t, err)
		assert.Equal(t, "delivered", resp.Status)
		assert.Equal(t, "paid", resp.PaymentStatus)
		assert.NotNil(t, resp.DeliveredAt)
	})

	t.Run("cancellation requires a reason", func(t *testing.T) {
		service, m := newTestOrderService()

		_, err := service.UpdateStatus(ctx, uuid.New(), UpdateStatusRequest{Status: "cancelled"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
		m.orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("cancellation routes through the restocking store", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, uuid.New())

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.checkoutStore.On("CancelOrder", ctx, o, mock.Anything).Return(nil)

		resp, err := service.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "cancelled", Reason: "Out of delivery range"})

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		m.orderRepo.AssertNotCalled(t, "SaveWithEvents", mock.Anything, mock.Anything, mock.Anything)
		m.checkoutStore.AssertExpectations(t)
	})
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("marks an order paid with its transaction", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, uuid.New())

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.orderRepo.On("Save", ctx, o).Return(nil)

		resp, err := service.UpdatePaymentStatus(ctx, o.ID, UpdatePaymentStatusRequest{
			PaymentStatus: "paid",
			TransactionID: "TXN-12345",
		})

		require.NoError(t, err)
		assert.Equal(t, "paid", resp.PaymentStatus)
		assert.Equal(t, "TXN-12345", resp.TransactionID)
	})

	t.Run("marks a failed payment without losing the order", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, uuid.New())

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.orderRepo.On("Save", ctx, o).Return(nil)

		resp, err := service.UpdatePaymentStatus(ctx, o.ID, UpdatePaymentStatusRequest{
			PaymentStatus: "failed",
			TransactionID: "TXN-99",
		})

		require.NoError(t, err)
		assert.Equal(t, "failed", resp.PaymentStatus)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("refunds only paid orders", func(t *testing.T) {
		service, m := newTestOrderService()
		o := placedOrder(t, uuid.New())

		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := service.UpdatePaymentStatus(ctx, o.ID, UpdatePaymentStatusRequest{PaymentStatus: "refunded"})

		require.Error(t, err)
		m.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

// Interface guards for the mocks
var (
	_ order.OrderRepository     = (*MockOrderRepository)(nil)
	_ order.CheckoutStore       = (*MockCheckoutStore)(nil)
	_ cart.CartRepository       = (*MockCartRepository)(nil)
	_ catalog.ProductRepository = (*MockProductRepository)(nil)
	_ delivery.AreaRepository   = (*MockAreaRepository)(nil)
	_ payment.GatewayRepository = (*MockGatewayRepository)(nil)
)
