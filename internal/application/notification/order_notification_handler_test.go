package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/application/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/notification"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, eventKey notification.EventKey, rcpt Recipient, data map[string]any, orderID *uuid.UUID) error {
	args := m.Called(ctx, eventKey, rcpt, data, orderID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ============================================================================
// Test Helpers
// ============================================================================

func notifiedCustomer(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("ramesh", "ramesh@example.com", "S3cretpass!")
	require.NoError(t, err)
	require.NoError(t, user.SetFullName("Ramesh Thapa"))
	require.NoError(t, user.SetPhone("9841234567"))
	user.ClearDomainEvents()
	return user
}

func confirmableOrder(t *testing.T, userID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(userID, "cod", "Ward 5, Patan, Lalitpur", "9851098765")
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Goat Leg", "खसीको फिला", decimal.NewFromInt(2), valueobject.NewMoneyNPRFromFloat(1200))
	require.NoError(t, err)
	require.NoError(t, o.Place())
	return o
}

func TestOrderNotificationHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the confirmation when an order is placed", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		userRepo := new(MockUserRepository)
		handler := NewOrderNotificationHandler(dispatcher, userRepo, zap.NewNop())

		user := notifiedCustomer(t)
		o := confirmableOrder(t, user.ID)
		event := order.NewOrderPlacedEvent(o)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		dispatcher.On("Dispatch", ctx, notification.EventKeyOrderPlaced, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, handler.Handle(ctx, event))

		rcpt := dispatcher.Calls[0].Arguments.Get(2).(Recipient)
		assert.Equal(t, "Ramesh Thapa", rcpt.Name)
		assert.Equal(t, "ramesh@example.com", rcpt.Email)
		assert.Equal(t, "9841234567", rcpt.Phone)

		data := dispatcher.Calls[0].Arguments.Get(3).(map[string]any)
		assert.Equal(t, o.OrderNumber, data["order_number"])
		assert.Equal(t, "Rs. 2400.00", data["total"])
		assert.Equal(t, "cod", data["payment_method"])

		orderID := dispatcher.Calls[0].Arguments.Get(4).(*uuid.UUID)
		require.NotNil(t, orderID)
		assert.Equal(t, o.ID, *orderID)
	})

	t.Run("sends a status update when the order moves on", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		userRepo := new(MockUserRepository)
		handler := NewOrderNotificationHandler(dispatcher, userRepo, zap.NewNop())

		user := notifiedCustomer(t)
		o := confirmableOrder(t, user.ID)
		event := order.NewOrderStatusChangedEvent(o, order.StatusPending, order.StatusConfirmed)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		dispatcher.On("Dispatch", ctx, notification.EventKeyOrderStatusChange, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, handler.Handle(ctx, event))

		data := dispatcher.Calls[0].Arguments.Get(3).(map[string]any)
		assert.Equal(t, "pending", data["old_status"])
		assert.Equal(t, "confirmed", data["new_status"])
	})

	t.Run("routes cancellations through the status change templates", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		userRepo := new(MockUserRepository)
		handler := NewOrderNotificationHandler(dispatcher, userRepo, zap.NewNop())

		user := notifiedCustomer(t)
		o := confirmableOrder(t, user.ID)
		require.NoError(t, o.Cancel("out of stock"))
		events := o.GetDomainEvents()
		var cancelled *order.OrderCancelledEvent
		for _, e := range events {
			if c, ok := e.(*order.OrderCancelledEvent); ok {
				cancelled = c
			}
		}
		require.NotNil(t, cancelled)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		dispatcher.On("Dispatch", ctx, notification.EventKeyOrderStatusChange, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, handler.Handle(ctx, cancelled))

		data := dispatcher.Calls[0].Arguments.Get(3).(map[string]any)
		assert.Equal(t, "cancelled", data["new_status"])
		assert.Equal(t, "out of stock", data["reason"])
	})

	t.Run("fails when the customer cannot be loaded", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		userRepo := new(MockUserRepository)
		handler := NewOrderNotificationHandler(dispatcher, userRepo, zap.NewNop())

		o := confirmableOrder(t, uuid.New())
		event := order.NewOrderPlacedEvent(o)

		userRepo.On("FindByID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)

		err := handler.Handle(ctx, event)

		assert.Error(t, err)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminLowStockNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches the low stock alert to the shop contact", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		notifier := NewAdminLowStockNotifier(dispatcher, "shop@example.com.np", "9800000000")

		dispatcher.On("Dispatch", ctx, notification.EventKeyLowStock, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		notice := inventory.LowStockNotice{
			ProductID:   uuid.New(),
			Name:        "Chicken Breast",
			NameNepali:  "कुखुराको छाती",
			StockKg:     decimal.NewFromFloat(3.5),
			ThresholdKg: decimal.NewFromInt(5),
		}
		require.NoError(t, notifier.NotifyLowStock(ctx, notice))

		rcpt := dispatcher.Calls[0].Arguments.Get(2).(Recipient)
		assert.Equal(t, "shop@example.com.np", rcpt.Email)
		assert.Equal(t, "9800000000", rcpt.Phone)

		data := dispatcher.Calls[0].Arguments.Get(3).(map[string]any)
		assert.Equal(t, "Chicken Breast", data["product_name"])
		assert.Equal(t, "3.5", data["stock_kg"])
	})
}

var _ identity.UserRepository = (*MockUserRepository)(nil)
var _ Dispatcher = (*MockDispatcher)(nil)
