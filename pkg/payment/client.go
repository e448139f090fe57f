package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a payment gateway over its JSON HTTP API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a gateway client with the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Provider returns the gateway this client is configured for.
func (c *Client) Provider() Provider {
	return c.config.Provider
}

// Charge submits a charge and returns the gateway's verdict.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	resp, err := c.doRequest(ctx, "charges", req)
	if err != nil {
		return nil, err
	}

	var chargeResp ChargeResponse
	if err := json.Unmarshal(resp, &chargeResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal charge response: %w", err)
	}
	return &chargeResp, nil
}

// Refund reverses a previous charge.
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	resp, err := c.doRequest(ctx, "refunds", req)
	if err != nil {
		return nil, err
	}

	var refundResp RefundResponse
	if err := json.Unmarshal(resp, &refundResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refund response: %w", err)
	}
	return &refundResp, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Provider: c.config.Provider, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{
			Provider: c.config.Provider,
			Status:   resp.StatusCode,
			Message:  string(body),
		}
	}
	return body, nil
}
