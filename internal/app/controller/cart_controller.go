package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// resolveOwner picks the cart identity for the request: the
// authenticated user when present, otherwise the guest session.
func resolveOwner(c *gin.Context) (service.CartOwner, bool) {
	if userID, ok := middleware.GetUserID(c); ok {
		return service.CartOwner{UserID: &userID}, true
	}
	if sessionID, ok := middleware.GetSessionID(c); ok && sessionID != "" {
		return service.CartOwner{SessionID: &sessionID}, true
	}
	apperrors.BadRequest(c, apperrors.CartOwnerAmbiguous, "No cart identity on request")
	return service.CartOwner{}, false
}

// GetCart returns the current cart with computed totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	owner, ok := resolveOwner(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.GetCart(owner)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	log.Debug("Cart fetched", map[string]interface{}{
		"cart_id":     view.CartID,
		"total_items": view.TotalItems,
	})
	apperrors.RespondOK(c, "Cart fetched", view)
}

// AddToCart adds a product line, merging with an existing line
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.AddToCart(owner, req.ProductID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	apperrors.RespondOK(c, "Item added to cart", view)
}

// UpdateItem changes a line's quantity
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.UpdateItemQuantity(owner, itemID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	apperrors.RespondOK(c, "Cart item updated", view)
}

// RemoveItem deletes one line
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.RemoveItem(owner, itemID)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	apperrors.RespondOK(c, "Cart item removed", view)
}

// ClearCart removes every line but keeps the cart row
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(owner); err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	apperrors.RespondOK(c, "Cart cleared", nil)
}

// MergeGuestCart folds the guest session's cart into the logged-in
// user's cart
// POST /api/v1/cart/merge
func (ctrl *CartController) MergeGuestCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Login required to merge carts")
		return
	}

	sessionID, ok := middleware.GetSessionID(c)
	if !ok || sessionID == "" {
		apperrors.BadRequest(c, apperrors.CartOwnerAmbiguous, "No guest session to merge from")
		return
	}

	view, err := ctrl.cartService.MergeGuestCart(sessionID, userID)
	if err != nil {
		ctrl.respondCartError(c, err)
		return
	}

	log.Info("Guest cart merged", map[string]interface{}{
		"user_id":    userID,
		"session_id": sessionID,
	})
	apperrors.RespondOK(c, "Carts merged", view)
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCartOwnerRequired):
		apperrors.BadRequest(c, apperrors.CartOwnerAmbiguous, "Cart must belong to a user or a guest session, not both")
	case errors.Is(err, service.ErrCartNotFound):
		apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.OrderInvalidQuantity, "Quantity must be at least 1")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.Conflict(c, apperrors.CartInsufficientStock, "Not enough stock for the requested quantity")
	default:
		log.Error("Cart operation failed", err)
		apperrors.ParseAndRespond(c, err, "cart operation")
	}
}
