package inventory

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

func TestNewStockTransaction(t *testing.T) {
	t.Run("outbound movement", func(t *testing.T) {
		productID := uuid.New()
		txn, err := NewStockTransaction(productID, decimal.NewFromFloat(-2.5), decimal.NewFromFloat(7.5),
			TxnReasonOrderDeduction, "")
		require.NoError(t, err)

		assert.Equal(t, productID, txn.ProductID)
		assert.True(t, txn.DeltaKg.Equal(decimal.NewFromFloat(-2.5)))
		assert.True(t, txn.ResultKg.Equal(decimal.NewFromFloat(7.5)))
		assert.False(t, txn.IsInbound())
		assert.Nil(t, txn.ActorID)
		assert.Nil(t, txn.OrderID)
	})

	t.Run("inbound movement with actor", func(t *testing.T) {
		actorID := uuid.New()
		txn, err := NewStockTransaction(uuid.New(), decimal.NewFromInt(20), decimal.NewFromInt(25),
			TxnReasonAdminAdjustment, "Morning delivery from the farm")
		require.NoError(t, err)

		txn.WithActor(actorID)
		assert.True(t, txn.IsInbound())
		require.NotNil(t, txn.ActorID)
		assert.Equal(t, actorID, *txn.ActorID)
	})

	t.Run("order linkage", func(t *testing.T) {
		orderID := uuid.New()
		txn, err := NewStockTransaction(uuid.New(), decimal.NewFromInt(2), decimal.NewFromInt(12),
			TxnReasonCancellationRestock, "")
		require.NoError(t, err)

		txn.WithOrder(orderID)
		require.NotNil(t, txn.OrderID)
		assert.Equal(t, orderID, *txn.OrderID)
	})

	t.Run("zero delta rejected", func(t *testing.T) {
		_, err := NewStockTransaction(uuid.New(), decimal.Zero, decimal.NewFromInt(5), TxnReasonAdminAdjustment, "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DELTA", domainErr.Code)
	})

	t.Run("negative result rejected", func(t *testing.T) {
		_, err := NewStockTransaction(uuid.New(), decimal.NewFromInt(-10), decimal.NewFromInt(-1), TxnReasonOrderDeduction, "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_RESULT", domainErr.Code)
	})

	t.Run("unknown reason rejected", func(t *testing.T) {
		_, err := NewStockTransaction(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), "shrinkage", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})

	t.Run("note too long", func(t *testing.T) {
		_, err := NewStockTransaction(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1),
			TxnReasonImport, strings.Repeat("x", 501))
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NOTE", domainErr.Code)
	})
}

func TestTxnReason_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		reason   TxnReason
		expected bool
	}{
		{"order_deduction", TxnReasonOrderDeduction, true},
		{"cancellation_restock", TxnReasonCancellationRestock, true},
		{"admin_adjustment", TxnReasonAdminAdjustment, true},
		{"csv_import", TxnReasonImport, true},
		{"empty", "", false},
		{"invalid", "theft", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.IsValid())
		})
	}
}
