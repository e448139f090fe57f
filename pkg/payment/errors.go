package payment

import "fmt"

// GatewayError wraps any provider-side failure so callers can translate
// it without inspecting provider payloads.
type GatewayError struct {
	Provider Provider
	Status   int
	Message  string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s error (status %d): %s", e.Provider, e.Status, e.Message)
}
