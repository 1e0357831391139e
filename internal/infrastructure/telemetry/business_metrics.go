// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides storefront business metrics. It tracks order
// placement, revenue, payment outcomes, and stock health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	ordersPlacedTotal *Counter
	orderRevenueTotal *Counter
	paymentTotal      *Counter

	// Gauge metrics (point-in-time values)
	lowStockProducts   *Gauge
	outOfStockProducts *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	stockProvider StockMetricsProvider
}

// StockMetricsProvider provides stock data for periodic metrics
// collection. The interface lets the telemetry layer query stock state
// without depending on the catalog domain directly.
type StockMetricsProvider interface {
	// CountLowStock returns the number of active products at or below the
	// low stock threshold but not yet sold out
	CountLowStock(ctx context.Context) (int64, error)

	// CountOutOfStock returns the number of active products with no stock left
	CountOutOfStock(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StockProvider   StockMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	// Initialize counter metrics
	var err error

	// Order metrics
	bm.ordersPlacedTotal, err = NewCounter(
		cfg.Meter,
		"meatshop_orders_placed_total",
		"Total number of orders placed",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderRevenueTotal, err = NewCounter(
		cfg.Meter,
		"meatshop_order_revenue_paisa_total",
		"Total order revenue in paisa",
		"{paisa}",
	)
	if err != nil {
		return nil, err
	}

	// Payment metrics
	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"meatshop_payments_total",
		"Total number of payment transactions",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	// Stock gauge metrics
	bm.lowStockProducts, err = NewGauge(
		cfg.Meter,
		"meatshop_low_stock_products",
		"Number of active products at or below the low stock threshold",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	bm.outOfStockProducts, err = NewGauge(
		cfg.Meter,
		"meatshop_out_of_stock_products",
		"Number of active products with no stock left",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderPlaced records an order placement event.
// This should be called from the application layer when checkout completes.
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string) {
	bm.ordersPlacedTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordOrderRevenue records the order total.
// Amount is in NPR and converted to paisa for the counter.
func (bm *BusinessMetrics) RecordOrderRevenue(ctx context.Context, paymentMethod string, amount decimal.Decimal) {
	paisa := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.orderRevenueTotal.Add(ctx, paisa,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordOrderWithRevenue is a convenience method that records both order
// count and revenue.
func (bm *BusinessMetrics) RecordOrderWithRevenue(ctx context.Context, paymentMethod string, amount decimal.Decimal) {
	bm.RecordOrderPlaced(ctx, paymentMethod)
	bm.RecordOrderRevenue(ctx, paymentMethod, amount)
}

// =============================================================================
// Payment Metrics
// =============================================================================

// PaymentOutcome represents the outcome of a payment for metrics labeling.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// RecordPayment records a payment transaction.
// This should be called when a payment settles, at initiation or callback.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, paymentMethod string, outcome PaymentOutcome) {
	bm.paymentTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
		AttrPaymentStatus.String(string(outcome)),
	)
}

// =============================================================================
// Stock Metrics
// =============================================================================

// RecordLowStockCount records the number of products at or below the low
// stock threshold. This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, count int64) {
	bm.lowStockProducts.Record(ctx, count)
}

// RecordOutOfStockCount records the number of sold-out products.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOutOfStockCount(ctx context.Context, count int64) {
	bm.outOfStockProducts.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of the stock gauges
// every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectStockMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx)
		}
	}
}

// collectStockMetrics collects the stock gauge metrics.
func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	lowStock, err := bm.stockProvider.CountLowStock(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count low stock products", zap.Error(err))
	} else {
		bm.RecordLowStockCount(ctx, lowStock)
	}

	outOfStock, err := bm.stockProvider.CountOutOfStock(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count out-of-stock products", zap.Error(err))
	} else {
		bm.RecordOutOfStockCount(ctx, outOfStock)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
