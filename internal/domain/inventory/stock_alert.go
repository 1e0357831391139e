package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

var (
	// DefaultThresholdKg is the stock level at which an alert fires
	DefaultThresholdKg = decimal.NewFromFloat(5.0)
	// DefaultAlertCooldown suppresses repeat alerts for the same product
	DefaultAlertCooldown = 6 * time.Hour
)

// StockAlert is the per-product low-stock alert configuration. The
// last-sent timestamp throttles repeat alerts while a product sits
// below its threshold.
type StockAlert struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ThresholdKg decimal.Decimal `gorm:"type:decimal(18,3);not null;default:5.0"`
	Active      bool            `gorm:"not null;default:true"`
	LastSentAt  *time.Time      `gorm:""`
}

// TableName returns the table name for GORM
func (StockAlert) TableName() string {
	return "stock_alerts"
}

// NewStockAlert creates an alert with the default threshold
func NewStockAlert(productID uuid.UUID) (*StockAlert, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}

	return &StockAlert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		ThresholdKg:       DefaultThresholdKg,
		Active:            true,
	}, nil
}

// SetThreshold changes the stock level that triggers the alert
func (a *StockAlert) SetThreshold(thresholdKg decimal.Decimal) error {
	if thresholdKg.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_THRESHOLD", "Alert threshold must be positive")
	}

	a.ThresholdKg = thresholdKg
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Activate turns the alert on
func (a *StockAlert) Activate() error {
	if a.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Stock alert is already active")
	}

	a.Active = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Deactivate turns the alert off
func (a *StockAlert) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Stock alert is already inactive")
	}

	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// ShouldAlert reports whether an alert is due for the given stock level.
// An alert fires when the alert is active, the stock sits at or below
// the threshold, and the cooldown since the last alert has elapsed.
func (a *StockAlert) ShouldAlert(stockKg decimal.Decimal, now time.Time) bool {
	if !a.Active {
		return false
	}
	if stockKg.GreaterThan(a.ThresholdKg) {
		return false
	}
	if a.LastSentAt != nil && now.Sub(*a.LastSentAt) < DefaultAlertCooldown {
		return false
	}
	return true
}

// MarkSent records that an alert went out, starting the cooldown
func (a *StockAlert) MarkSent(now time.Time) {
	a.LastSentAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
}
