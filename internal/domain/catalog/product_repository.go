package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByName finds a product by its English name
	FindByName(ctx context.Context, name string) (*Product, error)

	// ExistsByName checks if a product with the given English name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// FindAll finds all products matching the filter.
	// Filter keys: category_id, meat_type, preparation_type, featured, status.
	// Search matches both English and Nepali names.
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindActive finds all active products matching the filter
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindFeatured finds active featured products
	FindFeatured(ctx context.Context, limit int) ([]Product, error)

	// FindByCategory finds all products in a specific category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByMeatType finds all products of a given meat type
	FindByMeatType(ctx context.Context, meatType MeatType, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindLowStock finds active products at or below the low stock threshold
	FindLowStock(ctx context.Context) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByCategory counts products in a specific category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// CountByStatus counts products with the given status
	CountByStatus(ctx context.Context, status ProductStatus) (int64, error)
}
