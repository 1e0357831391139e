package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Weight is a value object representing a weight in kilograms.
// Everything in the shop is sold and stocked by weight, so kilograms
// are the only unit; fractional values are expected (0.5 kg, 1.25 kg).
// It is immutable - all operations return new Weight instances.
type Weight struct {
	kg decimal.Decimal
}

// NewWeight creates a new Weight from a decimal kilogram value
func NewWeight(kg decimal.Decimal) (Weight, error) {
	if kg.IsNegative() {
		return Weight{}, errors.New("weight cannot be negative")
	}
	return Weight{kg: kg}, nil
}

// NewWeightFromFloat creates a Weight from a float64 kilogram value
func NewWeightFromFloat(kg float64) (Weight, error) {
	return NewWeight(decimal.NewFromFloat(kg))
}

// NewWeightFromString creates a Weight from a string kilogram value
func NewWeightFromString(kg string) (Weight, error) {
	d, err := decimal.NewFromString(kg)
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight string: %w", err)
	}
	return NewWeight(d)
}

// MustNewWeight creates a Weight and panics on error
func MustNewWeight(kg decimal.Decimal) Weight {
	w, err := NewWeight(kg)
	if err != nil {
		panic(err)
	}
	return w
}

// ZeroWeight returns a zero weight
func ZeroWeight() Weight {
	return Weight{kg: decimal.Zero}
}

// Kg returns the decimal kilogram value
func (w Weight) Kg() decimal.Decimal {
	return w.kg
}

// Grams returns the weight expressed in grams, truncated to whole grams
func (w Weight) Grams() int64 {
	return w.kg.Mul(decimal.NewFromInt(1000)).IntPart()
}

// IsZero returns true if the weight is zero
func (w Weight) IsZero() bool {
	return w.kg.IsZero()
}

// IsPositive returns true if the weight is positive
func (w Weight) IsPositive() bool {
	return w.kg.IsPositive()
}

// Float64 returns the kilogram value as a float64 (may lose precision)
func (w Weight) Float64() float64 {
	f, _ := w.kg.Float64()
	return f
}

// Add returns a new Weight with the sum of both weights
func (w Weight) Add(other Weight) Weight {
	return Weight{kg: w.kg.Add(other.kg)}
}

// Subtract returns a new Weight with the difference
// Returns error if the result would be negative
func (w Weight) Subtract(other Weight) (Weight, error) {
	result := w.kg.Sub(other.kg)
	if result.IsNegative() {
		return Weight{}, errors.New("resulting weight cannot be negative")
	}
	return Weight{kg: result}, nil
}

// MultiplyPrice returns the Money value for this weight at the given
// per-kilogram price
func (w Weight) MultiplyPrice(pricePerKg Money) Money {
	return pricePerKg.Multiply(w.kg)
}

// Equals returns true if both weights are equal
func (w Weight) Equals(other Weight) bool {
	return w.kg.Equal(other.kg)
}

// LessThan returns true if this weight is less than the other
func (w Weight) LessThan(other Weight) bool {
	return w.kg.LessThan(other.kg)
}

// GreaterThan returns true if this weight is greater than the other
func (w Weight) GreaterThan(other Weight) bool {
	return w.kg.GreaterThan(other.kg)
}

// String returns a string representation like "1.50 kg"
func (w Weight) String() string {
	return fmt.Sprintf("%s kg", w.kg.StringFixed(2))
}

// MarshalJSON implements json.Marshaler
func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.kg.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (w *Weight) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kg, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid weight: %w", err)
	}
	if kg.IsNegative() {
		return errors.New("weight cannot be negative")
	}
	w.kg = kg
	return nil
}

// Value implements driver.Valuer for database storage
func (w Weight) Value() (driver.Value, error) {
	return w.kg.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (w *Weight) Scan(value any) error {
	if value == nil {
		w.kg = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Weight", value)
	}

	kg, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	w.kg = kg
	return nil
}
