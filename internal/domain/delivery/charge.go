package delivery

import (
	"github.com/shopspring/decimal"
)

// Charge tier thresholds and amounts, in NPR
var (
	// FreeDeliveryThreshold is the subtotal at which delivery becomes free
	FreeDeliveryThreshold = decimal.NewFromInt(2000)
	// ReducedChargeThreshold is the subtotal at which the flat reduced charge applies
	ReducedChargeThreshold = decimal.NewFromInt(1000)
	// ReducedCharge is the flat charge between the two thresholds
	ReducedCharge = decimal.NewFromInt(25)
	// DefaultCharge applies below the reduced threshold when no area is chosen
	DefaultCharge = decimal.NewFromInt(50)
)

// ChargeCalculator resolves the delivery charge for an order subtotal.
// This is a domain service as it combines the tier rules with the
// optional per-area charge.
type ChargeCalculator struct{}

// NewChargeCalculator creates a new charge calculator
func NewChargeCalculator() *ChargeCalculator {
	return &ChargeCalculator{}
}

// ChargeFor returns the delivery charge for the given subtotal.
// Tiers apply before any area rate: orders at or above the free
// threshold ship free, orders at or above the reduced threshold pay the
// flat reduced charge, and smaller orders pay the area's charge (or the
// default when no area was chosen).
func (c *ChargeCalculator) ChargeFor(subtotal decimal.Decimal, area *Area) decimal.Decimal {
	switch {
	case subtotal.GreaterThanOrEqual(FreeDeliveryThreshold):
		return decimal.Zero
	case subtotal.GreaterThanOrEqual(ReducedChargeThreshold):
		return ReducedCharge
	case area != nil:
		return area.Charge
	default:
		return DefaultCharge
	}
}
