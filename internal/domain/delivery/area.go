package delivery

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Area represents a serviceable delivery zone around the valley.
// Names are bilingual; the checkout page shows both side by side.
type Area struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	NameNepali     string          `gorm:"type:varchar(100)"`
	Charge         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MinOrderAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	EstimatedHours int             `gorm:"not null;default:2"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Area) TableName() string {
	return "delivery_areas"
}

// NewArea creates a new delivery area
func NewArea(name, nameNepali string, charge decimal.Decimal) (*Area, error) {
	if err := validateAreaName(name); err != nil {
		return nil, err
	}
	if err := validateCharge(charge); err != nil {
		return nil, err
	}

	area := &Area{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		NameNepali:        nameNepali,
		Charge:            charge,
		MinOrderAmount:    decimal.Zero,
		EstimatedHours:    2,
		Active:            true,
	}

	area.AddDomainEvent(NewAreaCreatedEvent(area))

	return area, nil
}

// Update updates the area's details
func (a *Area) Update(name, nameNepali string, charge decimal.Decimal, estimatedHours int) error {
	if err := validateAreaName(name); err != nil {
		return err
	}
	if err := validateCharge(charge); err != nil {
		return err
	}
	if estimatedHours <= 0 {
		return shared.NewDomainError("INVALID_ESTIMATE", "Estimated delivery hours must be positive")
	}

	a.Name = name
	a.NameNepali = nameNepali
	a.Charge = charge
	a.EstimatedHours = estimatedHours
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAreaUpdatedEvent(a))

	return nil
}

// SetMinOrderAmount sets the minimum order amount for this area
func (a *Area) SetMinOrderAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order amount cannot be negative")
	}

	a.MinOrderAmount = amount
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Activate makes the area selectable at checkout
func (a *Area) Activate() error {
	if a.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Delivery area is already active")
	}

	a.Active = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAreaStatusChangedEvent(a))

	return nil
}

// Deactivate hides the area from checkout
func (a *Area) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Delivery area is already inactive")
	}

	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAreaStatusChangedEvent(a))

	return nil
}

// MeetsMinimum returns true if the subtotal clears the area's minimum order amount
func (a *Area) MeetsMinimum(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(a.MinOrderAmount)
}

// DisplayName returns the bilingual display label for the area
func (a *Area) DisplayName() string {
	if a.NameNepali == "" {
		return a.Name
	}
	return a.NameNepali + " / " + a.Name
}

// validateAreaName validates the area name
func validateAreaName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Area name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Area name cannot exceed 100 characters")
	}
	return nil
}

// validateCharge validates the delivery charge
func validateCharge(charge decimal.Decimal) error {
	if charge.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Delivery charge cannot be negative")
	}
	return nil
}
