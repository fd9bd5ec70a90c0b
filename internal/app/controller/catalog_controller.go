package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalogService service.CatalogService
	defaultRegion  model.Region
}

func NewCatalogController(catalogService service.CatalogService, defaultRegion model.Region) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		defaultRegion:  defaultRegion,
	}
}

// Browse runs the catalog pipeline over the query facets.
// GET /api/v1/catalog
func (ctrl *CatalogController) Browse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := service.CatalogFilter{
		Rooms:       splitCSV(c.Query("menu")),
		Collections: splitCSV(c.Query("collections")),
		Modules:     splitCSV(c.Query("types")),
		PriceMin:    parsePrice(c.Query("min")),
		PriceMax:    parsePrice(c.Query("max")),
		Query:       c.Query("q"),
		Sort:        service.ParseCatalogSort(c.Query("sort")),
		Doors:       splitCSV(c.Query("doors")),
		Facades:     splitCSV(c.Query("facade")),
		Region:      ctrl.regionFrom(c),
	}

	result, err := ctrl.catalogService.Browse(filter)
	if err != nil {
		log.Error("Failed to browse catalog", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to browse catalog",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scenes": result.Scenes,
		"items":  result.Items,
		"all":    result.All,
		"count":  len(result.All),
	})
}

// GetProduct returns one product with its variants.
// GET /api/v1/catalog/:slug
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	product, err := ctrl.catalogService.GetProductBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

func (ctrl *CatalogController) regionFrom(c *gin.Context) model.Region {
	raw := c.Query("region")
	if raw == "" {
		return ctrl.defaultRegion
	}
	return model.ParseRegion(raw)
}

// splitCSV splits a comma-separated facet value, dropping empty entries.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// parsePrice coerces a numeric query value, falling back to 0 on garbage.
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
