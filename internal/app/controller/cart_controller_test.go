package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	"github.com/dsaidov/mebelplaza-backend/internal/db"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "guest:test-session"

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	product := &model.Product{
		Slug:     "tumba-amber",
		Title:    "Тумба Амбер",
		Room:     "bedrooms",
		Module:   "tumbi",
		PriceUZS: 900000,
		Variants: []model.Variant{
			{Slug: "oak", GroupName: "color", Title: "Дуб"},
		},
	}
	require.NoError(t, productRepo.Create(product))

	stateRepo := repository.NewMemoryStateRepository()
	cartService := service.NewCartService(stateRepo, productRepo)
	cartController := NewCartController(cartService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router
}

// Helper function to set the state owner the session middleware would resolve
func setOwnerInContext(c *gin.Context, owner string) {
	c.Set(middleware.StateOwnerKey, owner)
}

func TestCartController_GetCart_Empty(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(0), response["total_quantity"])
}

func TestCartController_AddToCart_Success(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.AddToCart(c)
	})

	reqBody := AddToCartRequest{
		ProductID: "tumba-amber",
		VariantID: "oak",
		Quantity:  2,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(2), response["total_quantity"])
	cart := response["cart"].(map[string]interface{})
	assert.Equal(t, float64(2), cart["tumba-amber::oak"])
}

func TestCartController_AddToCart_UnknownProduct(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.AddToCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: "no-such", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_AddToCart_InvalidBody(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.AddToCart(c)
	})

	// Missing quantity fails binding validation.
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBufferString(`{"product_id": "tumba-amber"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_SetQuantity_ZeroRemoves(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.AddToCart(c)
	})
	router.PUT("/cart/items", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.SetQuantity(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: "tumba-amber", Quantity: 3})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	jsonBody, _ = json.Marshal(SetQuantityRequest{ProductID: "tumba-amber", Quantity: 0})
	req = httptest.NewRequest(http.MethodPut, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(0), response["total_quantity"])
}

func TestCartController_RemoveFromCart_NotFound(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.DELETE("/cart/items", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.RemoveFromCart(c)
	})

	jsonBody, _ := json.Marshal(RemoveFromCartRequest{ProductID: "tumba-amber"})
	req := httptest.NewRequest(http.MethodDelete, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	controller, router := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.AddToCart(c)
	})
	router.DELETE("/cart", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.ClearCart(c)
	})
	router.GET("/cart", func(c *gin.Context) {
		setOwnerInContext(c, testOwner)
		controller.GetCart(c)
	})

	jsonBody, _ := json.Marshal(AddToCartRequest{ProductID: "tumba-amber", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, float64(0), response["total_quantity"])
}
