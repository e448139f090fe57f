package payment

import "fmt"

// Config holds gateway connection settings.
type Config struct {
	Provider Provider
	BaseURL  string
	APIKey   string
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if !ValidProvider(c.Provider) {
		return fmt.Errorf("unsupported payment provider: %q", c.Provider)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("payment base URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("payment API key is required")
	}
	return nil
}
