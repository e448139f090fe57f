package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
)

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

type ChargeRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Method  string `json:"method" binding:"required"`
}

type RefundRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Reason  string `json:"reason"`
}

// Charge forwards an order payment to the gateway
// POST /api/v1/payments/charge
func (ctrl *PaymentController) Charge(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid payment request")
		return
	}

	result, err := ctrl.paymentService.ChargeOrder(c.Request.Context(), req.OrderID, req.Method)
	if err != nil {
		ctrl.respondPaymentError(c, err)
		return
	}

	log.Info("Payment captured", map[string]interface{}{
		"order_id":       result.OrderID,
		"transaction_id": result.TransactionID,
	})
	apperrors.RespondOK(c, "Payment captured", result)
}

// Refund requests a gateway refund for a paid order (admin only)
// POST /api/v1/admin/payments/refund
func (ctrl *PaymentController) Refund(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid refund request")
		return
	}

	result, err := ctrl.paymentService.RefundOrder(c.Request.Context(), req.OrderID, req.Reason)
	if err != nil {
		ctrl.respondPaymentError(c, err)
		return
	}

	log.Info("Payment refunded", map[string]interface{}{
		"order_id":       result.OrderID,
		"transaction_id": result.TransactionID,
	})
	apperrors.RespondOK(c, "Payment refunded", result)
}

func (ctrl *PaymentController) respondPaymentError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrOrderAlreadyPaid):
		apperrors.Conflict(c, apperrors.ResourceConflict, "Order is already paid")
	case errors.Is(err, service.ErrPaymentDeclined):
		apperrors.RespondWithError(c, http.StatusPaymentRequired, apperrors.PaymentFailed, "Payment was declined")
	case errors.Is(err, service.ErrGatewayUnavailable):
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ExternalServiceError, "Payment gateway is unavailable")
	default:
		log.Error("Payment operation failed", err)
		apperrors.InternalError(c, "Payment operation failed")
	}
}
