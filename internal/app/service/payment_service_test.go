package service

import (
	"context"
	"testing"
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/minkwan/storefront-backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPaymentServiceTest(t *testing.T, config payment.Config) (PaymentService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	statusRepo := repository.NewStatusRepository(testDB)
	paymentService := NewPaymentService(config, orderRepo, statusRepo, "KRW")

	return paymentService, testDB
}

func createPaymentTestOrder(t *testing.T, testDB *gorm.DB) *model.Order {
	var pending model.Status
	require.NoError(t, testDB.Where("name = ?", "Pending").First(&pending).Error)

	order := &model.Order{
		OrderNumber:     "ORD-PAY-1",
		Email:           "buyer@example.com",
		ShippingName:    "Buyer",
		ShippingAddress: "1 Main St",
		TotalAmount:     model.MoneyFromFloat(25.00),
		StatusID:        pending.ID,
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestPaymentService_ChargeOrder_UnconfiguredGateway(t *testing.T) {
	paymentService, testDB := setupPaymentServiceTest(t, payment.Config{})
	order := createPaymentTestOrder(t, testDB)

	_, err := paymentService.ChargeOrder(context.Background(), order.ID, "card")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// The order stays unpaid when the gateway was never reached.
	var reloaded model.Order
	require.NoError(t, testDB.First(&reloaded, order.ID).Error)
	assert.Nil(t, reloaded.PaidAt)
}

func TestPaymentService_ChargeOrder_AlreadyPaid(t *testing.T) {
	paymentService, testDB := setupPaymentServiceTest(t, payment.Config{})
	order := createPaymentTestOrder(t, testDB)

	paidAt := time.Now()
	require.NoError(t, testDB.Model(order).Updates(map[string]interface{}{
		"payment_provider": "stripe",
		"payment_ref":      "tx-1",
		"paid_at":          paidAt,
	}).Error)

	_, err := paymentService.ChargeOrder(context.Background(), order.ID, "card")
	assert.ErrorIs(t, err, ErrOrderAlreadyPaid)
}

func TestPaymentService_RefundOrder_UnpaidOrder(t *testing.T) {
	paymentService, testDB := setupPaymentServiceTest(t, payment.Config{})
	order := createPaymentTestOrder(t, testDB)

	_, err := paymentService.RefundOrder(context.Background(), order.ID, "changed my mind")
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}
