package controller

import (
	"errors"
	"net/http"

	apierrors "github.com/essence-za/essence-backend/internal/errors"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/service"
	"github.com/essence-za/essence-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionTokenHeader carries the opaque cart session token. The server
// issues one on the first cart request and the storefront echoes it back.
const SessionTokenHeader = "X-Session-Token"

type CartController struct {
	cartService    service.CartService
	settingService service.SettingService
}

func NewCartController(cartService service.CartService, settingService service.SettingService) *CartController {
	return &CartController{
		cartService:    cartService,
		settingService: settingService,
	}
}

type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
}

// ChangeQuantityRequest carries a signed quantity delta. A zero delta is a
// valid no-op, so no required binding here.
type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

type CustomerTypeRequest struct {
	CustomerType model.CustomerType `json:"customer_type" binding:"required"`
}

// sessionToken returns the request's session token, minting a fresh one
// when the client has none yet.
func sessionToken(c *gin.Context) string {
	token := c.GetHeader(SessionTokenHeader)
	if token == "" {
		token = uuid.NewString()
	}
	return token
}

func (ctrl *CartController) respondWithCart(c *gin.Context, token string, cart *model.Cart) {
	c.Header(SessionTokenHeader, token)
	c.JSON(http.StatusOK, gin.H{
		"session_token": token,
		"cart":          cart,
		"subtotal":      service.Subtotal(cart),
	})
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := sessionToken(c)

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), token)
	if err != nil {
		log.Error("Failed to load cart", err, nil)
		apierrors.InternalError(c, "Failed to load cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// AddItem puts one unit of a variant in the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := sessionToken(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.AddVariant(c.Request.Context(), token, req.ProductID, req.VariantID)
	if err != nil {
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"variant_id": req.VariantID,
		})
		apierrors.InternalError(c, "Failed to update cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// ChangeQuantity adjusts a cart line's quantity by a signed delta
// PUT /api/v1/cart/items/:variant_id
func (ctrl *CartController) ChangeQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := sessionToken(c)

	variantID, err := parseIDParam(c, "variant_id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid variant ID")
		return
	}

	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.ChangeQuantity(c.Request.Context(), token, variantID, req.Delta)
	if err != nil {
		log.Error("Failed to change cart quantity", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apierrors.InternalError(c, "Failed to update cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// RemoveItem drops a variant's line from the cart
// DELETE /api/v1/cart/items/:variant_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := sessionToken(c)

	variantID, err := parseIDParam(c, "variant_id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid variant ID")
		return
	}

	cart, err := ctrl.cartService.RemoveVariant(c.Request.Context(), token, variantID)
	if err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apierrors.InternalError(c, "Failed to update cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}

// SetCustomerType switches the session between regular and reseller pricing
// PUT /api/v1/cart/customer-type
func (ctrl *CartController) SetCustomerType(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := sessionToken(c)

	var req CustomerTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.SetCustomerType(c.Request.Context(), token, req.CustomerType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCustomerType) {
			apierrors.BadRequest(c, apierrors.CartInvalidCustomerType, "Unknown customer type")
			return
		}
		log.Error("Failed to set customer type", err, map[string]interface{}{
			"customer_type": req.CustomerType,
		})
		apierrors.InternalError(c, "Failed to update cart")
		return
	}

	ctrl.respondWithCart(c, token, cart)
}
