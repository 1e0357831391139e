package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/delivery"
)

// CreateAreaRequest represents the payload for creating a delivery area
type CreateAreaRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	NameNepali     string           `json:"name_nepali" binding:"omitempty,max=100"`
	Charge         decimal.Decimal  `json:"charge" binding:"required"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	EstimatedHours *int             `json:"estimated_hours" binding:"omitempty,min=1"`
}

// UpdateAreaRequest represents the payload for updating a delivery area
type UpdateAreaRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	NameNepali     string           `json:"name_nepali" binding:"omitempty,max=100"`
	Charge         decimal.Decimal  `json:"charge" binding:"required"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	EstimatedHours int              `json:"estimated_hours" binding:"required,min=1"`
}

// AreaResponse represents a delivery area in API responses
type AreaResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	NameNepali     string          `json:"name_nepali,omitempty"`
	DisplayName    string          `json:"display_name"`
	Charge         decimal.Decimal `json:"charge"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	EstimatedHours int             `json:"estimated_hours"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToAreaResponse converts a domain Area to AreaResponse
func ToAreaResponse(a *delivery.Area) *AreaResponse {
	return &AreaResponse{
		ID:             a.ID,
		Name:           a.Name,
		NameNepali:     a.NameNepali,
		DisplayName:    a.DisplayName(),
		Charge:         a.Charge,
		MinOrderAmount: a.MinOrderAmount,
		EstimatedHours: a.EstimatedHours,
		Active:         a.Active,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Version:        a.Version,
	}
}
