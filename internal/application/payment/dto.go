package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

// MethodResponse describes one payment option on the checkout page
type MethodResponse struct {
	Method       string `json:"method"`
	Name         string `json:"name"`
	NameNepali   string `json:"name_nepali,omitempty"`
	DisplayName  string `json:"display_name"`
	Instructions string `json:"instructions,omitempty"`
	QRImageURL   string `json:"qr_image_url,omitempty"`
	SortOrder    int    `json:"sort_order"`
}

// ToMethodResponse converts a gateway to a checkout payment option
func ToMethodResponse(g *payment.Gateway) *MethodResponse {
	return &MethodResponse{
		Method:       g.Method.String(),
		Name:         g.Name,
		NameNepali:   g.NameNepali,
		DisplayName:  g.DisplayName(),
		Instructions: g.Instructions,
		QRImageURL:   g.QRImageURL,
		SortOrder:    g.SortOrder,
	}
}

// InitiateResponse tells the storefront how the customer completes the
// payment. Exactly one of RedirectURL, FormAction or Instructions is
// the hand-off depending on the method.
type InitiateResponse struct {
	OrderID       uuid.UUID         `json:"order_id"`
	OrderNumber   string            `json:"order_number"`
	Method        string            `json:"method"`
	Amount        decimal.Decimal   `json:"amount"`
	TransactionID string            `json:"transaction_id,omitempty"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	RedirectURL   string            `json:"redirect_url,omitempty"`
	FormAction    string            `json:"form_action,omitempty"`
	FormFields    map[string]string `json:"form_fields,omitempty"`
	Instructions  string            `json:"instructions,omitempty"`
	QRImageURL    string            `json:"qr_image_url,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
}

// CallbackResponse reports the settled outcome of a gateway return call
type CallbackResponse struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	PaymentStatus string    `json:"payment_status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Duplicate     bool      `json:"duplicate,omitempty"`
}

// UpdateGatewayRequest updates a gateway's display fields and settings (admin)
type UpdateGatewayRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	NameNepali   string `json:"name_nepali" binding:"omitempty,max=100"`
	Instructions string `json:"instructions" binding:"omitempty,max=2000"`
	SortOrder    *int   `json:"sort_order" binding:"omitempty,min=0"`
	Config       string `json:"config" binding:"omitempty,max=4000"`
}

// GatewayResponse is the admin view of a gateway configuration
type GatewayResponse struct {
	ID           uuid.UUID `json:"id"`
	Method       string    `json:"method"`
	Name         string    `json:"name"`
	NameNepali   string    `json:"name_nepali,omitempty"`
	DisplayName  string    `json:"display_name"`
	Enabled      bool      `json:"enabled"`
	SortOrder    int       `json:"sort_order"`
	Instructions string    `json:"instructions,omitempty"`
	QRImageURL   string    `json:"qr_image_url,omitempty"`
	Config       string    `json:"config"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToGatewayResponse converts a gateway to its admin response
func ToGatewayResponse(g *payment.Gateway) *GatewayResponse {
	return &GatewayResponse{
		ID:           g.ID,
		Method:       g.Method.String(),
		Name:         g.Name,
		NameNepali:   g.NameNepali,
		DisplayName:  g.DisplayName(),
		Enabled:      g.Enabled,
		SortOrder:    g.SortOrder,
		Instructions: g.Instructions,
		QRImageURL:   g.QRImageURL,
		Config:       g.Config,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}
