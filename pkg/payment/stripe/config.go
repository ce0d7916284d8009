package stripe

// Config represents the configuration for the Stripe Checkout client
type Config struct {
	// SecretKey is the Stripe API secret key
	SecretKey string

	// BaseURL is the Stripe API base URL
	BaseURL string

	// SuccessURL is the redirect URL after a completed payment.
	// May contain the {CHECKOUT_SESSION_ID} template placeholder.
	SuccessURL string

	// CancelURL is the redirect URL after an abandoned payment
	CancelURL string

	// Currency is the ISO currency code used for all line items
	Currency string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.SuccessURL == "" {
		return ErrInvalidRequest
	}
	if c.CancelURL == "" {
		return ErrInvalidRequest
	}
	if c.Currency == "" {
		return ErrInvalidRequest
	}
	return nil
}
