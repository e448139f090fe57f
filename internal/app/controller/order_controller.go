package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	Email           string             `json:"email" binding:"required,email"`
	ShippingName    string             `json:"shipping_name" binding:"required"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	Phone           string             `json:"phone"`
	FromCart        bool               `json:"from_cart"`
	Items           []OrderLineRequest `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder places an order from explicit lines or from the caller's
// cart when from_cart is set
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input := service.CreateOrderInput{
		Email:           req.Email,
		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		input.UserID = &userID
	}

	var (
		order *model.Order
		err   error
	)
	if req.FromCart {
		owner, ok := resolveOwner(c)
		if !ok {
			return
		}
		order, err = ctrl.orderService.CreateOrderFromCart(owner, input)
	} else {
		for _, line := range req.Items {
			input.Items = append(input.Items, service.OrderLineInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		order, err = ctrl.orderService.CreateOrder(input)
	}
	if err != nil {
		ctrl.respondOrderError(c, err)
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	apperrors.RespondCreated(c, "Order placed", order)
}

// GetMyOrders lists the authenticated user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	filter := repository.OrderFilter{
		UserID: &userID,
		Page:   parsePageRequest(c),
	}
	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	page := filter.Page.Normalize()
	apperrors.RespondPage(c, "Orders fetched", orders,
		apperrors.NewPageMeta(page.PageNumber, page.PageSize, total))
}

// GetOrderByID returns one order, scoped to the caller unless admin
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var scope *uint
	if role, hasRole := middleware.GetUserRole(c); !hasRole || role != model.RoleAdmin {
		userID, hasUser := middleware.GetUserID(c)
		if !hasUser {
			apperrors.Unauthorized(c, "Login required")
			return
		}
		scope = &userID
	}

	order, err := ctrl.orderService.GetOrderByID(id, scope)
	if err != nil {
		ctrl.respondOrderError(c, err)
		return
	}

	apperrors.RespondOK(c, "Order fetched", order)
}

// ListOrders lists all orders with filters (admin only)
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{
		Email:      c.Query("email"),
		StatusName: c.Query("status"),
		Page:       parsePageRequest(c),
	}
	if userStr := c.Query("user_id"); userStr != "" {
		userID, err := strconv.ParseUint(userStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user_id filter")
			return
		}
		id := uint(userID)
		filter.UserID = &id
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid from date, expected RFC3339")
			return
		}
		filter.CreatedAfter = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid to date, expected RFC3339")
			return
		}
		filter.CreatedBefore = &to
	}

	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		log.Error("Failed to list orders", err)
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	page := filter.Page.Normalize()
	apperrors.RespondPage(c, "Orders fetched", orders,
		apperrors.NewPageMeta(page.PageNumber, page.PageSize, total))
}

// UpdateStatus moves an order to a named status (admin only)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(id, req.Status)
	if err != nil {
		ctrl.respondOrderError(c, err)
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   req.Status,
	})
	apperrors.RespondOK(c, "Order status updated", order)
}

// ListStatuses returns the seeded status lookup table (admin only)
// GET /api/v1/admin/statuses
func (ctrl *OrderController) ListStatuses(c *gin.Context) {
	statuses, err := ctrl.orderService.ListStatuses()
	if err != nil {
		apperrors.InternalError(c, "Failed to list statuses")
		return
	}
	apperrors.RespondOK(c, "Statuses fetched", statuses)
}

func (ctrl *OrderController) respondOrderError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrOrderNotOwned):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrEmptyOrder):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Order has no items")
	case errors.Is(err, service.ErrShippingRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Shipping details are required")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.OrderInvalidQuantity, "Quantity must be at least 1")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.BadRequest(c, apperrors.ProductNotFound, "One or more products do not exist")
	case errors.Is(err, service.ErrInvalidStatus):
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
	case errors.Is(err, service.ErrCartOwnerRequired):
		apperrors.BadRequest(c, apperrors.CartOwnerAmbiguous, "No cart identity on request")
	default:
		log.Error("Order operation failed", err)
		apperrors.ParseAndRespond(c, err, "order operation")
	}
}
