package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/minkwan/storefront-backend/pkg/payment"
)

var (
	ErrPaymentDeclined    = errors.New("payment was declined")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrOrderAlreadyPaid   = errors.New("order is already paid")
)

// PaymentResult is the outcome surfaced to the checkout flow. Gateway
// internals stay inside the payment package.
type PaymentResult struct {
	OrderID       uint   `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Provider      string `json:"provider"`
}

type PaymentService interface {
	ChargeOrder(ctx context.Context, orderID uint, method string) (*PaymentResult, error)
	RefundOrder(ctx context.Context, orderID uint, reason string) (*PaymentResult, error)
}

type paymentService struct {
	config     payment.Config
	orderRepo  repository.OrderRepository
	statusRepo repository.StatusRepository
	currency   string

	mu     sync.Mutex
	client *payment.Client
}

func NewPaymentService(
	config payment.Config,
	orderRepo repository.OrderRepository,
	statusRepo repository.StatusRepository,
	currency string,
) PaymentService {
	return &paymentService{
		config:     config,
		orderRepo:  orderRepo,
		statusRepo: statusRepo,
		currency:   currency,
	}
}

// gateway returns the configured client, constructing it on first use.
// A missing or invalid gateway configuration surfaces per request, so
// deployments without checkout still boot.
func (s *paymentService) gateway() (*payment.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	client, err := payment.NewClient(s.config)
	if err != nil {
		logger.Warn("Payment gateway not configured", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ErrGatewayUnavailable
	}
	s.client = client
	return client, nil
}

// ChargeOrder forwards the order total to the gateway and records the
// transaction reference on success. The charge is pass-through: the
// response is not interpreted beyond its success flag.
func (s *paymentService) ChargeOrder(ctx context.Context, orderID uint, method string) (*PaymentResult, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.PaidAt != nil {
		return nil, ErrOrderAlreadyPaid
	}

	client, err := s.gateway()
	if err != nil {
		return nil, err
	}

	logger.Info("Charging order", map[string]interface{}{
		"order_id": orderID,
		"amount":   order.TotalAmount,
		"provider": client.Provider(),
	})

	resp, err := client.Charge(ctx, payment.ChargeRequest{
		Amount:    order.TotalAmount.String(),
		Currency:  s.currency,
		Method:    method,
		Reference: order.OrderNumber,
	})
	if err != nil {
		var gatewayErr *payment.GatewayError
		if errors.As(err, &gatewayErr) {
			logger.Error("Payment gateway rejected request", err, map[string]interface{}{
				"order_id": orderID,
				"status":   gatewayErr.Status,
			})
		} else {
			logger.Error("Payment gateway unreachable", err, map[string]interface{}{
				"order_id": orderID,
			})
		}
		return nil, ErrGatewayUnavailable
	}

	if !resp.Success {
		logger.Warn("Payment declined", map[string]interface{}{
			"order_id": orderID,
			"reason":   resp.FailureReason,
		})
		return nil, ErrPaymentDeclined
	}

	if err := s.orderRepo.MarkPaid(orderID, string(client.Provider()), resp.TransactionID, time.Now()); err != nil {
		logger.Error("Charge succeeded but order could not be marked paid", err, map[string]interface{}{
			"order_id":       orderID,
			"transaction_id": resp.TransactionID,
		})
		return nil, err
	}

	return &PaymentResult{
		OrderID:       orderID,
		TransactionID: resp.TransactionID,
		Provider:      string(client.Provider()),
	}, nil
}

func (s *paymentService) RefundOrder(ctx context.Context, orderID uint, reason string) (*PaymentResult, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.PaidAt == nil || order.PaymentRef == "" {
		return nil, ErrPaymentDeclined
	}

	client, err := s.gateway()
	if err != nil {
		return nil, err
	}

	logger.Info("Refunding order", map[string]interface{}{
		"order_id": orderID,
		"amount":   order.TotalAmount,
	})

	resp, err := client.Refund(ctx, payment.RefundRequest{
		TransactionID: order.PaymentRef,
		Amount:        order.TotalAmount.String(),
		Currency:      s.currency,
		Reason:        reason,
	})
	if err != nil {
		logger.Error("Refund request failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, ErrGatewayUnavailable
	}
	if !resp.Success {
		return nil, ErrPaymentDeclined
	}

	if refunded, err := s.statusRepo.FindByName("Refunded"); err == nil {
		if err := s.orderRepo.UpdateStatus(orderID, refunded.ID); err != nil {
			logger.Warn("Refund succeeded but status not updated", map[string]interface{}{
				"order_id": orderID,
			})
		}
	}

	return &PaymentResult{
		OrderID:       orderID,
		TransactionID: resp.RefundID,
		Provider:      string(client.Provider()),
	}, nil
}
