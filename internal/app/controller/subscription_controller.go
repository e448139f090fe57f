package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
)

type SubscriptionController struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionController(subscriptionService service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

type SubscriptionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe adds an email to the newsletter list, reviving a previously
// unsubscribed address
// POST /api/v1/subscriptions
func (ctrl *SubscriptionController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	subscription, err := ctrl.subscriptionService.Subscribe(req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			apperrors.Conflict(c, apperrors.SubscriptionAlreadyExists, "Email is already subscribed")
			return
		}
		// A concurrent signup for the same email slips past the lookup
		// and surfaces as a unique-constraint error from the insert.
		log.Error("Subscription failed", err)
		apperrors.ParseAndRespond(c, err, "subscribe")
		return
	}

	apperrors.RespondCreated(c, "Subscribed", subscription)
}

// Unsubscribe deactivates a subscription
// DELETE /api/v1/subscriptions
func (ctrl *SubscriptionController) Unsubscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid email is required")
		return
	}

	if err := ctrl.subscriptionService.Unsubscribe(req.Email); err != nil {
		if errors.Is(err, service.ErrSubscriptionMissing) {
			apperrors.NotFound(c, apperrors.SubscriptionNotFound, "Email is not subscribed")
			return
		}
		log.Error("Unsubscribe failed", err)
		apperrors.ParseAndRespond(c, err, "unsubscribe")
		return
	}

	apperrors.RespondOK(c, "Unsubscribed", nil)
}

// ListActive lists active subscriptions (admin only)
// GET /api/v1/admin/subscriptions
func (ctrl *SubscriptionController) ListActive(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	subscriptions, err := ctrl.subscriptionService.ListActive()
	if err != nil {
		log.Error("Failed to list subscriptions", err)
		apperrors.InternalError(c, "Failed to fetch subscriptions")
		return
	}

	apperrors.RespondOK(c, "Subscriptions fetched", subscriptions)
}
