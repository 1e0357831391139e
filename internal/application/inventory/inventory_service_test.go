package inventory

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

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

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

// MockStockTransactionRepository is a mock implementation of inventory.StockTransactionRepository
type MockStockTransactionRepository struct {
	mock.Mock
}

func (m *MockStockTransactionRepository) Append(ctx context.Context, txn *inventory.StockTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockStockTransactionRepository) AppendAll(ctx context.Context, txns []*inventory.StockTransaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockStockTransactionRepository) FindByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*inventory.StockTransaction, int64, error) {
	args := m.Called(ctx, productID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*inventory.StockTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*inventory.StockTransaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockTransaction), args.Error(1)
}

func (m *MockStockTransactionRepository) FindRecent(ctx context.Context, limit int) ([]*inventory.StockTransaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockTransaction), args.Error(1)
}

// MockStockAlertRepository is a mock implementation of inventory.StockAlertRepository
type MockStockAlertRepository struct {
	mock.Mock
}

func (m *MockStockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockAlert), args.Error(1)
}

func (m *MockStockAlertRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.StockAlert, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockAlert), args.Error(1)
}

func (m *MockStockAlertRepository) FindActive(ctx context.Context) ([]*inventory.StockAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockAlert), args.Error(1)
}

func (m *MockStockAlertRepository) FindAll(ctx context.Context) ([]*inventory.StockAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockAlert), args.Error(1)
}

func (m *MockStockAlertRepository) Save(ctx context.Context, alert *inventory.StockAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockStockAlertRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of the event publisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// ============================================================================
// Test Helpers
// ============================================================================

type inventoryServiceMocks struct {
	productRepo *MockProductRepository
	txnRepo     *MockStockTransactionRepository
	alertRepo   *MockStockAlertRepository
}

func newTestInventoryService(t *testing.T) (*InventoryService, *inventoryServiceMocks) {
	t.Helper()
	m := &inventoryServiceMocks{
		productRepo: new(MockProductRepository),
		txnRepo:     new(MockStockTransactionRepository),
		alertRepo:   new(MockStockAlertRepository),
	}
	svc := NewInventoryService(m.productRepo, m.txnRepo, m.alertRepo, zap.NewNop())
	return svc, m
}

func stockedProduct(t *testing.T, name string, stockKg float64) *catalog.Product {
	t.Helper()
	price := valueobject.NewMoneyNPRFromFloat(850)
	p, err := catalog.NewProduct(name, "", uuid.New(), catalog.MeatTypeChicken, price)
	require.NoError(t, err)
	weight, err := valueobject.NewWeightFromFloat(stockKg)
	require.NoError(t, err)
	require.NoError(t, p.AddStock(weight))
	p.ClearDomainEvents()
	return p
}

func alertForProduct(t *testing.T, productID uuid.UUID, thresholdKg float64) *inventory.StockAlert {
	t.Helper()
	alert, err := inventory.NewStockAlert(productID)
	require.NoError(t, err)
	require.NoError(t, alert.SetThreshold(decimal.NewFromFloat(thresholdKg)))
	return alert
}

// ============================================================================
// AdjustStock Tests
// ============================================================================

func TestInventoryService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("adds stock and records the movement", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Chicken Breast", 10)

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.productRepo.On("Save", ctx, p).Return(nil)
		m.txnRepo.On("Append", ctx, mock.AnythingOfType("*inventory.StockTransaction")).Return(nil)

		resp, err := svc.AdjustStock(ctx, actorID, p.ID, AdjustStockRequest{
			DeltaKg: decimal.NewFromFloat(4.5),
			Reason:  "Morning delivery from supplier",
		})

		require.NoError(t, err)
		assert.True(t, resp.StockKg.Equal(decimal.NewFromFloat(14.5)), "got %s", resp.StockKg)

		txn := m.txnRepo.Calls[0].Arguments.Get(1).(*inventory.StockTransaction)
		assert.True(t, txn.DeltaKg.Equal(decimal.NewFromFloat(4.5)))
		assert.True(t, txn.ResultKg.Equal(decimal.NewFromFloat(14.5)))
		assert.Equal(t, inventory.TxnReasonAdminAdjustment, txn.Reason)
		assert.Equal(t, "Morning delivery from supplier", txn.Note)
		require.NotNil(t, txn.ActorID)
		assert.Equal(t, actorID, *txn.ActorID)
	})

	t.Run("removes stock with a negative delta", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Chicken Breast", 10)

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.productRepo.On("Save", ctx, p).Return(nil)
		m.txnRepo.On("Append", ctx, mock.AnythingOfType("*inventory.StockTransaction")).Return(nil)

		resp, err := svc.AdjustStock(ctx, actorID, p.ID, AdjustStockRequest{
			DeltaKg: decimal.NewFromFloat(-2.5),
			Reason:  "Spoilage write-off",
		})

		require.NoError(t, err)
		assert.True(t, resp.StockKg.Equal(decimal.NewFromFloat(7.5)))

		txn := m.txnRepo.Calls[0].Arguments.Get(1).(*inventory.StockTransaction)
		assert.True(t, txn.DeltaKg.IsNegative())
	})

	t.Run("rejects removing more than is in stock", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Chicken Breast", 3)

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.AdjustStock(ctx, actorID, p.ID, AdjustStockRequest{
			DeltaKg: decimal.NewFromFloat(-5),
			Reason:  "Spoilage write-off",
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		m.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.txnRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("rejects a zero delta", func(t *testing.T) {
		svc, m := newTestInventoryService(t)

		_, err := svc.AdjustStock(ctx, actorID, uuid.New(), AdjustStockRequest{
			DeltaKg: decimal.Zero,
			Reason:  "nothing",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DELTA", domainErr.Code)
		m.productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("publishes a low stock event when the threshold is crossed", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Chicken Breast", 8)

		publisher := new(MockEventPublisher)
		svc.SetEventPublisher(publisher)

		var captured []shared.DomainEvent
		publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
			captured = append(captured, args.Get(1).([]shared.DomainEvent)...)
		}).Return(nil)

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.productRepo.On("Save", ctx, p).Return(nil)
		m.txnRepo.On("Append", ctx, mock.AnythingOfType("*inventory.StockTransaction")).Return(nil)

		_, err := svc.AdjustStock(ctx, actorID, p.ID, AdjustStockRequest{
			DeltaKg: decimal.NewFromFloat(-4),
			Reason:  "Counter sale",
		})

		require.NoError(t, err)
		types := make([]string, len(captured))
		for i, e := range captured {
			types[i] = e.EventType()
		}
		assert.Contains(t, types, catalog.EventTypeProductStockLow)
		assert.Empty(t, p.GetDomainEvents())
	})
}

// ============================================================================
// Ledger Tests
// ============================================================================

func TestInventoryService_ListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a page of the product ledger", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Goat Curry Cut", 12)

		txn, err := inventory.NewStockTransaction(p.ID, decimal.NewFromInt(-2), decimal.NewFromInt(10), inventory.TxnReasonOrderDeduction, "Order ORD-1001")
		require.NoError(t, err)

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.txnRepo.On("FindByProduct", ctx, p.ID, 1, 20).Return([]*inventory.StockTransaction{txn}, int64(1), nil)

		result, err := svc.ListTransactions(ctx, p.ID, LedgerFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "order_deduction", result.Items[0].Reason)
	})

	t.Run("rejects an unknown product", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		id := uuid.New()

		m.productRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.ListTransactions(ctx, id, LedgerFilter{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// ============================================================================
// Alert Configuration Tests
// ============================================================================

func TestInventoryService_ConfigureAlert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an alert with the default threshold", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Buffalo Mince", 50)

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.alertRepo.On("FindByProduct", ctx, p.ID).Return(nil, shared.ErrNotFound)
		m.alertRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockAlert")).Return(nil)

		resp, err := svc.ConfigureAlert(ctx, p.ID, ConfigureAlertRequest{})

		require.NoError(t, err)
		assert.True(t, resp.ThresholdKg.Equal(inventory.DefaultThresholdKg))
		assert.True(t, resp.Active)
		assert.Equal(t, "Buffalo Mince", resp.ProductName)
	})

	t.Run("updates the threshold on an existing alert", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Buffalo Mince", 50)
		alert := alertForProduct(t, p.ID, 5)
		threshold := decimal.NewFromInt(12)

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.alertRepo.On("FindByProduct", ctx, p.ID).Return(alert, nil)
		m.alertRepo.On("Save", ctx, alert).Return(nil)

		resp, err := svc.ConfigureAlert(ctx, p.ID, ConfigureAlertRequest{ThresholdKg: &threshold})

		require.NoError(t, err)
		assert.True(t, resp.ThresholdKg.Equal(threshold))
	})

	t.Run("deactivates an alert", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Buffalo Mince", 50)
		alert := alertForProduct(t, p.ID, 5)
		active := false

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.alertRepo.On("FindByProduct", ctx, p.ID).Return(alert, nil)
		m.alertRepo.On("Save", ctx, alert).Return(nil)

		resp, err := svc.ConfigureAlert(ctx, p.ID, ConfigureAlertRequest{Active: &active})

		require.NoError(t, err)
		assert.False(t, resp.Active)
	})

	t.Run("rejects a non-positive threshold", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Buffalo Mince", 50)
		alert := alertForProduct(t, p.ID, 5)
		threshold := decimal.Zero

		m.productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		m.alertRepo.On("FindByProduct", ctx, p.ID).Return(alert, nil)

		_, err := svc.ConfigureAlert(ctx, p.ID, ConfigureAlertRequest{ThresholdKg: &threshold})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_THRESHOLD", domainErr.Code)
	})
}

func TestInventoryService_ListAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("joins alerts with product stock levels", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Pork Ribs", 4)
		alert := alertForProduct(t, p.ID, 5)

		m.alertRepo.On("FindAll", ctx).Return([]*inventory.StockAlert{alert}, nil)
		m.productRepo.On("FindByIDs", ctx, []uuid.UUID{p.ID}).Return([]catalog.Product{*p}, nil)

		responses, err := svc.ListAlerts(ctx)

		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, "Pork Ribs", responses[0].ProductName)
		assert.True(t, responses[0].StockKg.Equal(decimal.NewFromInt(4)))
	})

	t.Run("returns empty when nothing is configured", func(t *testing.T) {
		svc, m := newTestInventoryService(t)

		m.alertRepo.On("FindAll", ctx).Return([]*inventory.StockAlert{}, nil)

		responses, err := svc.ListAlerts(ctx)

		require.NoError(t, err)
		assert.Empty(t, responses)
		m.productRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})
}

// ============================================================================
// Sweep Tests
// ============================================================================

func TestInventoryService_SweepLowStock(t *testing.T) {
	ctx := context.Background()

	t.Run("raises events for products under the default threshold", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Pork Ribs", 3)

		publisher := new(MockEventPublisher)
		svc.SetEventPublisher(publisher)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		m.productRepo.On("FindLowStock", ctx).Return([]catalog.Product{*p}, nil)
		m.alertRepo.On("FindActive", ctx).Return([]*inventory.StockAlert{}, nil)

		result, err := svc.SweepLowStock(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Raised)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("honours a raised per-product threshold", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Goat Leg", 8)
		alert := alertForProduct(t, p.ID, 10)

		publisher := new(MockEventPublisher)
		svc.SetEventPublisher(publisher)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		m.productRepo.On("FindLowStock", ctx).Return([]catalog.Product{}, nil)
		m.alertRepo.On("FindActive", ctx).Return([]*inventory.StockAlert{alert}, nil)
		m.productRepo.On("FindByIDs", ctx, []uuid.UUID{p.ID}).Return([]catalog.Product{*p}, nil)

		result, err := svc.SweepLowStock(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Raised)
	})

	t.Run("suppresses products inside the alert cooldown", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Goat Leg", 3)
		alert := alertForProduct(t, p.ID, 5)
		alert.MarkSent(time.Now())

		publisher := new(MockEventPublisher)
		svc.SetEventPublisher(publisher)

		m.productRepo.On("FindLowStock", ctx).Return([]catalog.Product{*p}, nil)
		m.alertRepo.On("FindActive", ctx).Return([]*inventory.StockAlert{alert}, nil)

		result, err := svc.SweepLowStock(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Raised)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("skips products comfortably above their threshold", func(t *testing.T) {
		svc, m := newTestInventoryService(t)
		p := stockedProduct(t, "Goat Leg", 30)
		alert := alertForProduct(t, p.ID, 10)

		publisher := new(MockEventPublisher)
		svc.SetEventPublisher(publisher)

		m.productRepo.On("FindLowStock", ctx).Return([]catalog.Product{}, nil)
		m.alertRepo.On("FindActive", ctx).Return([]*inventory.StockAlert{alert}, nil)
		m.productRepo.On("FindByIDs", ctx, []uuid.UUID{p.ID}).Return([]catalog.Product{*p}, nil)

		result, err := svc.SweepLowStock(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Raised)
	})
}

var _ catalog.ProductRepository = (*MockProductRepository)(nil)
var _ inventory.StockTransactionRepository = (*MockStockTransactionRepository)(nil)
var _ inventory.StockAlertRepository = (*MockStockAlertRepository)(nil)
var _ shared.EventPublisher = (*MockEventPublisher)(nil)
