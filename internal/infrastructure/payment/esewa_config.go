package payment

import "errors"

// EsewaConfig contains merchant credentials for the eSewa Epay-v2 flow.
type EsewaConfig struct {
	// ProductCode is the merchant product code, e.g. EPAYTEST
	ProductCode string
	// SecretKey is the HMAC-SHA256 secret shared with eSewa
	SecretKey string
	// FormURL is the hosted form endpoint the customer posts to
	FormURL string
}

// Errors for configuration validation
var (
	ErrEsewaMissingProductCode = errors.New("esewa: missing product code")
	ErrEsewaMissingSecretKey   = errors.New("esewa: missing secret key")
)

// Validate validates the configuration and applies endpoint defaults
func (c *EsewaConfig) Validate() error {
	if c.ProductCode == "" {
		return ErrEsewaMissingProductCode
	}
	if c.SecretKey == "" {
		return ErrEsewaMissingSecretKey
	}
	if c.FormURL == "" {
		c.FormURL = esewaTestFormURL
	}
	return nil
}
