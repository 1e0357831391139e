package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

func TestNormalizeDate(t *testing.T) {
	ts := time.Date(2025, 3, 15, 14, 30, 22, 123, time.UTC)
	normalized := NormalizeDate(ts)

	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), normalized)
	assert.Equal(t, normalized, NormalizeDate(normalized))
}

func TestNewSalesReport(t *testing.T) {
	day := time.Date(2025, 3, 15, 9, 45, 0, 0, time.UTC)

	t.Run("derives average order value", func(t *testing.T) {
		r, err := NewSalesReport(day, 12, decimal.NewFromInt(18000), 9)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), r.ReportDate)
		assert.Equal(t, 12, r.TotalOrders)
		assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(18000)))
		assert.Equal(t, 9, r.DistinctCustomers)
		assert.True(t, r.AvgOrderValue.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("rounds average to paisa", func(t *testing.T) {
		r, err := NewSalesReport(day, 3, decimal.NewFromInt(1000), 3)
		require.NoError(t, err)
		assert.True(t, r.AvgOrderValue.Equal(decimal.NewFromFloat(333.33)), "got %s", r.AvgOrderValue)
	})

	t.Run("quiet day", func(t *testing.T) {
		r, err := NewSalesReport(day, 0, decimal.Zero, 0)
		require.NoError(t, err)
		assert.True(t, r.AvgOrderValue.IsZero())
	})

	t.Run("negative orders rejected", func(t *testing.T) {
		_, err := NewSalesReport(day, -1, decimal.Zero, 0)
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REPORT", domainErr.Code)
	})

	t.Run("negative revenue rejected", func(t *testing.T) {
		_, err := NewSalesReport(day, 0, decimal.NewFromInt(-100), 0)
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REPORT", domainErr.Code)
	})
}

func TestSalesReport_SetTopProduct(t *testing.T) {
	r, err := NewSalesReport(time.Now(), 5, decimal.NewFromInt(7500), 4)
	require.NoError(t, err)

	productID := uuid.New()
	r.SetTopProduct(productID, "Pork Ribs")

	require.NotNil(t, r.TopProductID)
	assert.Equal(t, productID, *r.TopProductID)
	assert.Equal(t, "Pork Ribs", r.TopProductName)
}
