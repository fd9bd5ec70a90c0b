package controller

import (
	"errors"
	"net/http"

	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type FavoritesController struct {
	favoritesService service.FavoritesService
}

func NewFavoritesController(favoritesService service.FavoritesService) *FavoritesController {
	return &FavoritesController{
		favoritesService: favoritesService,
	}
}

type FavoriteItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
}

// GetFavorites returns the visitor's favorites list.
// GET /api/v1/favorites
func (ctrl *FavoritesController) GetFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	favorites, err := ctrl.favoritesService.GetFavorites(c.Request.Context(), owner)
	if err != nil {
		log.Error("Failed to fetch favorites", err, map[string]interface{}{
			"owner": owner,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch favorites",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// Toggle flips an item in and out of favorites.
// POST /api/v1/favorites/toggle
func (ctrl *FavoritesController) Toggle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	var req FavoriteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid toggle favorite request", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	favorited, favorites, err := ctrl.favoritesService.Toggle(c.Request.Context(), owner, req.ProductID, req.VariantID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to toggle favorite", err, map[string]interface{}{
			"owner":      owner,
			"product_id": req.ProductID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to toggle favorite",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorited": favorited,
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// Remove deletes an item from favorites; removing an absent item is a no-op.
// DELETE /api/v1/favorites
func (ctrl *FavoritesController) Remove(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	owner := middleware.GetStateOwner(c)

	var req FavoriteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid remove favorite request", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	favorites, err := ctrl.favoritesService.Remove(c.Request.Context(), owner, req.ProductID, req.VariantID)
	if err != nil {
		log.Error("Failed to remove favorite", err, map[string]interface{}{
			"owner":      owner,
			"product_id": req.ProductID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove favorite",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}
