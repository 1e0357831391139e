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
)

// MockLowStockNotifier is a mock implementation of LowStockNotifier
type MockLowStockNotifier struct {
	mock.Mock
}

func (m *MockLowStockNotifier) NotifyLowStock(ctx context.Context, notice LowStockNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func lowStockEvent(t *testing.T, stockKg float64) *catalog.ProductStockLowEvent {
	t.Helper()
	p := stockedProduct(t, "Chicken Wings", stockKg)
	return catalog.NewProductStockLowEvent(p)
}

func TestStockLowHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies and starts the cooldown", func(t *testing.T) {
		alertRepo := new(MockStockAlertRepository)
		notifier := new(MockLowStockNotifier)
		handler := NewStockLowHandler(alertRepo, notifier, zap.NewNop())

		event := lowStockEvent(t, 3)
		alertRepo.On("FindByProduct", ctx, event.ProductID).Return(nil, shared.ErrNotFound)
		notifier.On("NotifyLowStock", ctx, mock.AnythingOfType("inventory.LowStockNotice")).Return(nil)
		alertRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockAlert")).Return(nil)

		err := handler.Handle(ctx, event)

		require.NoError(t, err)
		notice := notifier.Calls[0].Arguments.Get(1).(LowStockNotice)
		assert.Equal(t, "Chicken Wings", notice.Name)
		assert.True(t, notice.StockKg.Equal(decimal.NewFromInt(3)))
		assert.True(t, notice.ThresholdKg.Equal(inventory.DefaultThresholdKg))

		saved := alertRepo.Calls[1].Arguments.Get(1).(*inventory.StockAlert)
		assert.NotNil(t, saved.LastSentAt)
	})

	t.Run("suppresses a repeat alert inside the cooldown", func(t *testing.T) {
		alertRepo := new(MockStockAlertRepository)
		notifier := new(MockLowStockNotifier)
		handler := NewStockLowHandler(alertRepo, notifier, zap.NewNop())

		event := lowStockEvent(t, 3)
		alert, err := inventory.NewStockAlert(event.ProductID)
		require.NoError(t, err)
		alert.MarkSent(time.Now().Add(-time.Hour))

		alertRepo.On("FindByProduct", ctx, event.ProductID).Return(alert, nil)

		require.NoError(t, handler.Handle(ctx, event))

		notifier.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything)
		alertRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("alerts again once the cooldown has passed", func(t *testing.T) {
		alertRepo := new(MockStockAlertRepository)
		notifier := new(MockLowStockNotifier)
		handler := NewStockLowHandler(alertRepo, notifier, zap.NewNop())

		event := lowStockEvent(t, 3)
		alert, err := inventory.NewStockAlert(event.ProductID)
		require.NoError(t, err)
		alert.MarkSent(time.Now().Add(-inventory.DefaultAlertCooldown - time.Minute))

		alertRepo.On("FindByProduct", ctx, event.ProductID).Return(alert, nil)
		notifier.On("NotifyLowStock", ctx, mock.AnythingOfType("inventory.LowStockNotice")).Return(nil)
		alertRepo.On("Save", ctx, alert).Return(nil)

		require.NoError(t, handler.Handle(ctx, event))

		notifier.AssertExpectations(t)
	})

	t.Run("suppresses when the alert is deactivated", func(t *testing.T) {
		alertRepo := new(MockStockAlertRepository)
		notifier := new(MockLowStockNotifier)
		handler := NewStockLowHandler(alertRepo, notifier, zap.NewNop())

		event := lowStockEvent(t, 3)
		alert, err := inventory.NewStockAlert(event.ProductID)
		require.NoError(t, err)
		require.NoError(t, alert.Deactivate())

		alertRepo.On("FindByProduct", ctx, event.ProductID).Return(alert, nil)

		require.NoError(t, handler.Handle(ctx, event))

		notifier.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything)
	})

	t.Run("leaves the cooldown unstarted when the notifier fails", func(t *testing.T) {
		alertRepo := new(MockStockAlertRepository)
		notifier := new(MockLowStockNotifier)
		handler := NewStockLowHandler(alertRepo, notifier, zap.NewNop())

		event := lowStockEvent(t, 3)
		alertRepo.On("FindByProduct", ctx, event.ProductID).Return(nil, shared.ErrNotFound)
		notifier.On("NotifyLowStock", ctx, mock.AnythingOfType("inventory.LowStockNotice")).Return(assert.AnError)

		require.NoError(t, handler.Handle(ctx, event))

		alertRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unexpected event type", func(t *testing.T) {
		alertRepo := new(MockStockAlertRepository)
		handler := NewStockLowHandler(alertRepo, nil, zap.NewNop())

		event := shared.NewBaseDomainEvent("SomethingElse", "Product", uuid.New())

		err := handler.Handle(ctx, &event)

		assert.Error(t, err)
	})
}
