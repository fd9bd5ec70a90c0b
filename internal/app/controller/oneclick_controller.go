package controller

import (
	"errors"
	"net/http"

	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OneClickController struct {
	oneClickService service.OneClickService
}

func NewOneClickController(oneClickService service.OneClickService) *OneClickController {
	return &OneClickController{
		oneClickService: oneClickService,
	}
}

type SetOneClickRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// Get returns the pending express-checkout item, null when empty.
// GET /api/v1/one-click
func (ctrl *OneClickController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	record, err := ctrl.oneClickService.Get(c.Request.Context(), owner)
	if err != nil {
		log.Error("Failed to fetch one-click record", err, map[string]interface{}{
			"owner": owner,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch one-click record",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"one_click": record,
	})
}

// Set stores the express-checkout item, replacing any previous one.
// PUT /api/v1/one-click
func (ctrl *OneClickController) Set(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	var req SetOneClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid set one-click request", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := ctrl.oneClickService.Set(c.Request.Context(), owner, req.ProductID, req.Quantity, req.VariantID)
	if err != nil {
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
			log.Error("Failed to set one-click record", err, map[string]interface{}{
				"owner":      owner,
				"product_id": req.ProductID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to set one-click record",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"one_click": record,
	})
}

// Clear drops the pending express-checkout item.
// DELETE /api/v1/one-click
func (ctrl *OneClickController) Clear(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	if err := ctrl.oneClickService.Clear(c.Request.Context(), owner); err != nil {
		log.Error("Failed to clear one-click record", err, map[string]interface{}{
			"owner": owner,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear one-click record",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "One-click record cleared",
	})
}
