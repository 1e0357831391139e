package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// MeatType classifies a product by the animal it comes from
type MeatType string

const (
	MeatTypePork    MeatType = "pork"
	MeatTypeBuffalo MeatType = "buffalo"
	MeatTypeChicken MeatType = "chicken"
	MeatTypeGoat    MeatType = "goat"
	MeatTypeMutton  MeatType = "mutton"
	MeatTypeFish    MeatType = "fish"
)

// ValidMeatTypes lists every accepted meat type
var ValidMeatTypes = []MeatType{
	MeatTypePork, MeatTypeBuffalo, MeatTypeChicken,
	MeatTypeGoat, MeatTypeMutton, MeatTypeFish,
}

// IsValid checks if the meat type is one of the accepted values
func (t MeatType) IsValid() bool {
	for _, valid := range ValidMeatTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// PreparationType describes how the meat is prepared for sale
type PreparationType string

const (
	PreparationFresh     PreparationType = "fresh"
	PreparationFrozen    PreparationType = "frozen"
	PreparationMarinated PreparationType = "marinated"
	PreparationCut       PreparationType = "cut"
)

// ValidPreparationTypes lists every accepted preparation type
var ValidPreparationTypes = []PreparationType{
	PreparationFresh, PreparationFrozen, PreparationMarinated, PreparationCut,
}

// IsValid checks if the preparation type is one of the accepted values
func (t PreparationType) IsValid() bool {
	for _, valid := range ValidPreparationTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// Stock status labels shown on the storefront, derived from StockKg
const (
	StockStatusOut     = "Out of Stock"
	StockStatusLow     = "Low Stock"
	StockStatusLimited = "Limited Stock"
	StockStatusIn      = "In Stock"
)

// Freshness labels shown on the storefront, derived from hours since butchering
const (
	FreshnessFreshToday   = "Fresh Today"
	FreshnessCutYesterday = "Cut Yesterday"
	FreshnessStock        = "Stock"
)

// LowStockThresholdKg is the level at or below which a ProductStockLow
// event fires when crossed from above
var LowStockThresholdKg = decimal.NewFromInt(5)

// LimitedStockThresholdKg is the ceiling of the "Limited Stock" band
var LimitedStockThresholdKg = decimal.NewFromInt(20)

// DefaultMinOrderKg is the minimum order quantity applied to new products
var DefaultMinOrderKg = decimal.NewFromFloat(0.5)

// Product represents a meat product sold per kilogram.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"type:varchar(200);not null;index"`
	NameNepali      string          `gorm:"type:varchar(200)"`
	Description     string          `gorm:"type:text"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MeatType        MeatType        `gorm:"type:varchar(20);not null;index"`
	PreparationType PreparationType `gorm:"type:varchar(20);not null;default:'fresh'"`
	PricePerKg      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockKg         decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	MinOrderKg      decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0.5"`
	ButcheredAt     *time.Time      `gorm:""`
	ImageURL        string          `gorm:"type:varchar(500)"`
	CookingTips     string          `gorm:"type:text"`
	Featured        bool            `gorm:"not null;default:false;index"`
	Status          ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product priced per kilogram
func NewProduct(name, nameNepali string, categoryID uuid.UUID, meatType MeatType, pricePerKg valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateNepaliProductName(nameNepali); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product requires a category")
	}
	if err := validateMeatType(meatType); err != nil {
		return nil, err
	}
	if pricePerKg.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per kg cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		NameNepali:        nameNepali,
		CategoryID:        categoryID,
		MeatType:          meatType,
		PreparationType:   PreparationFresh,
		PricePerKg:        pricePerKg.Amount(),
		StockKg:           decimal.Zero,
		MinOrderKg:        DefaultMinOrderKg,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive information
func (p *Product) Update(name, nameNepali, description, cookingTips string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateNepaliProductName(nameNepali); err != nil {
		return err
	}

	p.Name = name
	p.NameNepali = nameNepali
	p.Description = description
	p.CookingTips = cookingTips
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Product requires a category")
	}

	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetMeatType changes the meat type classification
func (p *Product) SetMeatType(meatType MeatType) error {
	if err := validateMeatType(meatType); err != nil {
		return err
	}

	p.MeatType = meatType
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPreparationType changes how the meat is prepared for sale
func (p *Product) SetPreparationType(prep PreparationType) error {
	if err := validatePreparationType(prep); err != nil {
		return err
	}

	p.PreparationType = prep
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice updates the per-kilogram selling price
func (p *Product) SetPrice(pricePerKg valueobject.Money) error {
	if pricePerKg.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price per kg cannot be negative")
	}

	oldPrice := p.PricePerKg
	p.PricePerKg = pricePerKg.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetMinOrderKg sets the minimum quantity a customer may order
func (p *Product) SetMinOrderKg(minOrderKg decimal.Decimal) error {
	if !minOrderKg.IsPositive() {
		return shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order must be greater than zero")
	}

	p.MinOrderKg = minOrderKg
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImageURL sets the product image location
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetButcheredAt records when the meat was butchered.
// The freshness label is derived from this timestamp.
func (p *Product) SetButcheredAt(t time.Time) error {
	if t.After(time.Now()) {
		return shared.NewDomainError("INVALID_BUTCHERED_AT", "Butchered time cannot be in the future")
	}

	p.ButcheredAt = &t
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AddStock increases available stock by the given weight
func (p *Product) AddStock(weight valueobject.Weight) error {
	if !weight.IsPositive() {
		return shared.NewDomainError("INVALID_STOCK_CHANGE", "Stock change must be greater than zero")
	}

	oldStock := p.StockKg
	p.StockKg = p.StockKg.Add(weight.Kg())
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, oldStock))

	return nil
}

// DeductStock decreases available stock, never below zero
func (p *Product) DeductStock(weight valueobject.Weight) error {
	if !weight.IsPositive() {
		return shared.NewDomainError("INVALID_STOCK_CHANGE", "Stock change must be greater than zero")
	}
	if p.StockKg.LessThan(weight.Kg()) {
		return shared.ErrInsufficientStock
	}

	oldStock := p.StockKg
	p.StockKg = p.StockKg.Sub(weight.Kg())
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, oldStock))
	if oldStock.GreaterThan(LowStockThresholdKg) && p.StockKg.LessThanOrEqual(LowStockThresholdKg) {
		p.AddDomainEvent(NewProductStockLowEvent(p))
	}

	return nil
}

// SetFeatured toggles whether the product appears in the featured section
func (p *Product) SetFeatured(featured bool) {
	if p.Featured == featured {
		return
	}

	p.Featured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// Activate makes the product visible on the storefront
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, ProductStatusInactive, ProductStatusActive))

	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, ProductStatusActive, ProductStatusInactive))

	return nil
}

// IsActive returns true if the product is visible on the storefront
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsInStock returns true if any stock remains
func (p *Product) IsInStock() bool {
	return p.StockKg.IsPositive()
}

// DisplayName returns the bilingual name, Nepali first
func (p *Product) DisplayName() string {
	if p.NameNepali == "" {
		return p.Name
	}
	return p.NameNepali + " / " + p.Name
}

// PriceMoney returns the per-kilogram price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyNPR(p.PricePerKg)
}

// StockWeight returns the available stock as a Weight value object
func (p *Product) StockWeight() valueobject.Weight {
	w, _ := valueobject.NewWeight(p.StockKg)
	return w
}

// StockStatus returns the storefront stock label for the current stock level
func (p *Product) StockStatus() string {
	switch {
	case !p.StockKg.IsPositive():
		return StockStatusOut
	case p.StockKg.LessThanOrEqual(LowStockThresholdKg):
		return StockStatusLow
	case p.StockKg.LessThanOrEqual(LimitedStockThresholdKg):
		return StockStatusLimited
	default:
		return StockStatusIn
	}
}

// FreshnessHours returns whole hours since butchering, or -1 if unknown
func (p *Product) FreshnessHours() int {
	if p.ButcheredAt == nil {
		return -1
	}
	return int(time.Since(*p.ButcheredAt).Hours())
}

// FreshnessLabel returns the storefront freshness label
func (p *Product) FreshnessLabel() string {
	hours := p.FreshnessHours()
	switch {
	case hours < 0:
		return FreshnessStock
	case hours <= 6:
		return FreshnessFreshToday
	case hours <= 24:
		return FreshnessCutYesterday
	default:
		return FreshnessStock
	}
}

// validateProductName validates the English product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateNepaliProductName validates the Nepali product name.
// Length is in bytes; Devanagari runs about three bytes per rune.
func validateNepaliProductName(name string) error {
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Nepali product name cannot exceed 200 characters")
	}
	return nil
}

// validateMeatType validates the meat type
func validateMeatType(meatType MeatType) error {
	if !meatType.IsValid() {
		return shared.NewDomainError("INVALID_MEAT_TYPE", "Unknown meat type: "+string(meatType))
	}
	return nil
}

// validatePreparationType validates the preparation type
func validatePreparationType(prep PreparationType) error {
	if !prep.IsValid() {
		return shared.NewDomainError("INVALID_PREPARATION_TYPE", "Unknown preparation type: "+string(prep))
	}
	return nil
}
