package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	NameNepali      string           `json:"name_nepali" binding:"max=200"`
	Description     string           `json:"description" binding:"max=2000"`
	CategoryID      uuid.UUID        `json:"category_id" binding:"required"`
	MeatType        string           `json:"meat_type" binding:"required,meattype"`
	PreparationType string           `json:"preparation_type"`
	PricePerKg      decimal.Decimal  `json:"price_per_kg" binding:"required"`
	MinOrderKg      *decimal.Decimal `json:"min_order_kg"`
	ButcheredAt     *time.Time       `json:"butchered_at"`
	ImageURL        string           `json:"image_url" binding:"max=500"`
	CookingTips     string           `json:"cooking_tips" binding:"max=2000"`
	Featured        bool             `json:"featured"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields keep their current values.
type UpdateProductRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	NameNepali      *string          `json:"name_nepali" binding:"omitempty,max=200"`
	Description     *string          `json:"description" binding:"omitempty,max=2000"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	MeatType        *string          `json:"meat_type" binding:"omitempty,meattype"`
	PreparationType *string          `json:"preparation_type"`
	PricePerKg      *decimal.Decimal `json:"price_per_kg"`
	MinOrderKg      *decimal.Decimal `json:"min_order_kg"`
	ButcheredAt     *time.Time       `json:"butchered_at"`
	ImageURL        *string          `json:"image_url" binding:"omitempty,max=500"`
	CookingTips     *string          `json:"cooking_tips" binding:"omitempty,max=2000"`
	Featured        *bool            `json:"featured"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	NameNepali      string          `json:"name_nepali,omitempty"`
	DisplayName     string          `json:"display_name"`
	Description     string          `json:"description,omitempty"`
	CategoryID      uuid.UUID       `json:"category_id"`
	MeatType        string          `json:"meat_type"`
	PreparationType string          `json:"preparation_type"`
	PricePerKg      decimal.Decimal `json:"price_per_kg"`
	StockKg         decimal.Decimal `json:"stock_kg"`
	MinOrderKg      decimal.Decimal `json:"min_order_kg"`
	StockStatus     string          `json:"stock_status"`
	FreshnessLabel  string          `json:"freshness_label"`
	ButcheredAt     *time.Time      `json:"butchered_at,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	CookingTips     string          `json:"cooking_tips,omitempty"`
	Featured        bool            `json:"featured"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ProductListResponse represents a storefront list item for products
type ProductListResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	NameNepali     string          `json:"name_nepali,omitempty"`
	DisplayName    string          `json:"display_name"`
	CategoryID     uuid.UUID       `json:"category_id"`
	MeatType       string          `json:"meat_type"`
	PricePerKg     decimal.Decimal `json:"price_per_kg"`
	MinOrderKg     decimal.Decimal `json:"min_order_kg"`
	StockStatus    string          `json:"stock_status"`
	FreshnessLabel string          `json:"freshness_label"`
	ImageURL       string          `json:"image_url,omitempty"`
	Featured       bool            `json:"featured"`
	Status         string          `json:"status"`
}

// ProductListFilter represents filter options for product lists
type ProductListFilter struct {
	Search          string     `form:"search"`
	CategoryID      *uuid.UUID `form:"category_id"`
	MeatType        string     `form:"meat_type" binding:"omitempty,meattype"`
	PreparationType string     `form:"preparation_type"`
	Featured        *bool      `form:"featured"`
	Status          string     `form:"status" binding:"omitempty,oneof=active inactive"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		NameNepali:      p.NameNepali,
		DisplayName:     p.DisplayName(),
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		MeatType:        string(p.MeatType),
		PreparationType: string(p.PreparationType),
		PricePerKg:      p.PricePerKg,
		StockKg:         p.StockKg,
		MinOrderKg:      p.MinOrderKg,
		StockStatus:     p.StockStatus(),
		FreshnessLabel:  p.FreshnessLabel(),
		ButcheredAt:     p.ButcheredAt,
		ImageURL:        p.ImageURL,
		CookingTips:     p.CookingTips,
		Featured:        p.Featured,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:             p.ID,
		Name:           p.Name,
		NameNepali:     p.NameNepali,
		DisplayName:    p.DisplayName(),
		CategoryID:     p.CategoryID,
		MeatType:       string(p.MeatType),
		PricePerKg:     p.PricePerKg,
		MinOrderKg:     p.MinOrderKg,
		StockStatus:    p.StockStatus(),
		FreshnessLabel: p.FreshnessLabel(),
		ImageURL:       p.ImageURL,
		Featured:       p.Featured,
		Status:         string(p.Status),
	}
}

// ToProductListResponses converts a slice of domain Products to ProductListResponses
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductListResponse(&p)
	}
	return responses
}

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	NameNepali  string `json:"name_nepali" binding:"max=100"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"image_url" binding:"max=500"`
	SortOrder   *int   `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	NameNepali  *string `json:"name_nepali" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	NameNepali   string    `json:"name_nepali,omitempty"`
	DisplayName  string    `json:"display_name"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	SortOrder    int       `json:"sort_order"`
	Status       string    `json:"status"`
	ProductCount int64     `json:"product_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryListFilter represents filter options for category lists
type CategoryListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		NameNepali:  c.NameNepali,
		DisplayName: c.DisplayName(),
		Description: c.Description,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
