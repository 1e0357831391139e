package payment

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Gateway is the admin-managed configuration for one payment method.
// It is the aggregate root for payment configuration.
type Gateway struct {
	shared.BaseAggregateRoot
	Method       Method `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(100);not null"`
	NameNepali   string `gorm:"type:varchar(100)"`
	Enabled      bool   `gorm:"not null;default:true"`
	SortOrder    int    `gorm:"not null;default:0"`
	Instructions string `gorm:"type:text"`
	QRImageURL   string `gorm:"type:varchar(500)"`
	Config       string `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (Gateway) TableName() string {
	return "payment_gateways"
}

// NewGateway creates a gateway configuration for a payment method
func NewGateway(method Method, name, nameNepali string) (*Gateway, error) {
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Gateway name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Gateway name cannot exceed 100 characters")
	}

	gw := &Gateway{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Method:            method,
		Name:              strings.TrimSpace(name),
		NameNepali:        strings.TrimSpace(nameNepali),
		Enabled:           true,
		Config:            "{}",
	}

	gw.AddDomainEvent(NewGatewayCreatedEvent(gw))

	return gw, nil
}

// Update updates display fields
func (g *Gateway) Update(name, nameNepali, instructions string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Gateway name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Gateway name cannot exceed 100 characters")
	}

	g.Name = strings.TrimSpace(name)
	g.NameNepali = strings.TrimSpace(nameNepali)
	g.Instructions = instructions
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	g.AddDomainEvent(NewGatewayUpdatedEvent(g))

	return nil
}

// SetConfig replaces the merchant configuration JSON
func (g *Gateway) SetConfig(config string) error {
	if config == "" {
		config = "{}"
	}
	if !json.Valid([]byte(config)) {
		return shared.NewDomainError("INVALID_CONFIG", "Gateway config must be valid JSON")
	}

	g.Config = config
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// ConfigValue reads a single string value from the config JSON
func (g *Gateway) ConfigValue(key string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(g.Config), &m); err != nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// SetQRImageURL sets the admin-uploaded QR image location
func (g *Gateway) SetQRImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "QR image URL cannot exceed 500 characters")
	}

	g.QRImageURL = url
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order on the checkout page
func (g *Gateway) SetSortOrder(order int) {
	g.SortOrder = order
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// Enable makes the method selectable at checkout
func (g *Gateway) Enable() error {
	if g.Enabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Gateway is already enabled")
	}

	g.Enabled = true
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	g.AddDomainEvent(NewGatewayStatusChangedEvent(g))

	return nil
}

// Disable hides the method from checkout
func (g *Gateway) Disable() error {
	if !g.Enabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Gateway is already disabled")
	}

	g.Enabled = false
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	g.AddDomainEvent(NewGatewayStatusChangedEvent(g))

	return nil
}

// DisplayName returns the bilingual name, Nepali first
func (g *Gateway) DisplayName() string {
	if g.NameNepali == "" {
		return g.Name
	}
	return g.NameNepali + " / " + g.Name
}
