package payment

import "errors"

// KhaltiConfig contains merchant credentials for the Khalti ePayment flow.
type KhaltiConfig struct {
	// SecretKey authenticates merchant API calls and mints pidx tags
	SecretKey string
	// WebsiteURL is the merchant site reported on initiate requests
	WebsiteURL string
}

// Errors for configuration validation
var (
	ErrKhaltiMissingSecretKey  = errors.New("khalti: missing secret key")
	ErrKhaltiMissingWebsiteURL = errors.New("khalti: missing website URL")
)

// Validate validates the configuration
func (c *KhaltiConfig) Validate() error {
	if c.SecretKey == "" {
		return ErrKhaltiMissingSecretKey
	}
	if c.WebsiteURL == "" {
		return ErrKhaltiMissingWebsiteURL
	}
	return nil
}
