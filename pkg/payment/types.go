package payment

// Provider identifies which gateway a charge is routed to. The gateways
// are opaque to this system: requests pass through and only the
// success/failure flag is acted on.
type Provider string

const (
	ProviderStripe   Provider = "stripe"
	ProviderPayPal   Provider = "paypal"
	ProviderApplePay Provider = "applepay"
)

// ValidProvider reports whether p names a supported gateway.
func ValidProvider(p Provider) bool {
	switch p {
	case ProviderStripe, ProviderPayPal, ProviderApplePay:
		return true
	}
	return false
}

// ChargeRequest is the opaque DTO forwarded to the gateway.
type ChargeRequest struct {
	Amount    string            `json:"amount"`
	Currency  string            `json:"currency"`
	Method    string            `json:"method"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ChargeResponse carries the gateway's verdict.
type ChargeResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// RefundRequest reverses a previous charge by transaction id.
type RefundRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason,omitempty"`
}

// RefundResponse carries the gateway's verdict for a refund.
type RefundResponse struct {
	Success       bool   `json:"success"`
	RefundID      string `json:"refund_id"`
	FailureReason string `json:"failure_reason,omitempty"`
}
