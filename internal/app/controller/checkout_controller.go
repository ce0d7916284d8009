package controller

import (
	"errors"
	"net/http"

	apierrors "github.com/essence-za/essence-backend/internal/errors"

	"github.com/essence-za/essence-backend/internal/app/service"
	"github.com/essence-za/essence-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
	cartService     service.CartService
	orderService    service.OrderService
}

func NewCheckoutController(
	checkoutService service.CheckoutService,
	cartService service.CartService,
	orderService service.OrderService,
) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		cartService:     cartService,
		orderService:    orderService,
	}
}

type CheckoutRequest struct {
	CustomerEmail   string `json:"customer_email" binding:"required,email"`
	CustomerName    string `json:"customer_name" binding:"required"`
	IncludeDelivery bool   `json:"include_delivery"`
}

// Checkout opens a hosted payment session for the cart
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := sessionToken(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	result, err := ctrl.checkoutService.Checkout(c.Request.Context(), token, service.CheckoutRequest{
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		IncludeDelivery: req.IncludeDelivery,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			apierrors.BadRequest(c, apierrors.CartEmpty, "Cart is empty")
			return
		}
		log.Error("Checkout failed", err, nil)
		apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.CheckoutFailed, "Unable to start payment, please try again")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":   result.SessionID,
		"redirect_url": result.RedirectURL,
		"order_id":     result.OrderID,
	})
}

// Complete marks the pending order paid after the payment redirect and
// clears the session cart.
// POST /api/v1/checkout/complete
func (ctrl *CheckoutController) Complete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := sessionToken(c)

	sessionID := c.Query("session_id")
	if sessionID == "" {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "session_id is required")
		return
	}

	order, err := ctrl.orderService.MarkPaidBySession(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to complete checkout", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apierrors.InternalError(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(c.Request.Context(), token); err != nil {
		// The order is already paid; a stale cart is tolerable
		log.Warn("Failed to clear cart after payment", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment completed",
		"order":   order,
	})
}
