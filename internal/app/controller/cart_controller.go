package controller

import (
	"errors"
	"net/http"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/gin-gonic/gin"
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
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type SetQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
}

func cartResponse(cart model.CartSnapshot) gin.H {
	return gin.H{
		"cart":           cart,
		"total_quantity": cart.TotalQuantity(),
	}
}

// GetCart returns the visitor's cart snapshot.
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), owner)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"owner": owner,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch cart",
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// AddToCart adds quantity to an item, accumulating with what is there.
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cart, err := ctrl.cartService.AddToCart(c.Request.Context(), owner, req.ProductID, req.Quantity, req.VariantID)
	if err != nil {
		ctrl.respondCartError(c, err, owner, req.ProductID)
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"owner":      owner,
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
		"quantity":   req.Quantity,
	})
	c.JSON(http.StatusOK, cartResponse(cart))
}

// SetQuantity sets an item's quantity; zero or below removes the item.
// PUT /api/v1/cart/items
func (ctrl *CartController) SetQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid set quantity request", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cart, err := ctrl.cartService.SetQuantity(c.Request.Context(), owner, req.ProductID, req.Quantity, req.VariantID)
	if err != nil {
		ctrl.respondCartError(c, err, owner, req.ProductID)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveFromCart removes one item from the cart.
// DELETE /api/v1/cart/items
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	var req RemoveFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid remove from cart request", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cart, err := ctrl.cartService.RemoveFromCart(c.Request.Context(), owner, req.ProductID, req.VariantID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Cart item not found",
			})
			return
		}
		ctrl.respondCartError(c, err, owner, req.ProductID)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart drops the whole cart.
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	if err := ctrl.cartService.ClearCart(c.Request.Context(), owner); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"owner": owner,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, owner, productID string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, service.ErrVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product variant not found",
		})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid quantity",
		})
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"owner":      owner,
			"product_id": productID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Cart operation failed",
		})
	}
}
