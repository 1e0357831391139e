package delivery

import (
	"context"

	"github.com/google/uuid"
)

// AreaRepository defines the interface for delivery area persistence
type AreaRepository interface {
	// FindByID finds an area by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Area, error)

	// FindByName finds an area by its English name
	FindByName(ctx context.Context, name string) (*Area, error)

	// FindAll returns all areas ordered by name
	FindAll(ctx context.Context) ([]*Area, error)

	// FindActive returns active areas ordered by name
	FindActive(ctx context.Context) ([]*Area, error)

	// Save creates or updates an area
	Save(ctx context.Context, area *Area) error

	// Delete removes an area
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByName checks whether an area with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Count returns the total number of areas
	Count(ctx context.Context) (int64, error)
}
