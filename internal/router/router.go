package router

import (
	"github.com/dsaidov/mebelplaza-backend/config"
	"github.com/dsaidov/mebelplaza-backend/internal/app/controller"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController      *controller.AuthController
	catalogController   *controller.CatalogController
	cartController      *controller.CartController
	favoritesController *controller.FavoritesController
	oneClickController  *controller.OneClickController
	orderController     *controller.OrderController
	syncController      *controller.SyncController
	eventsController    *controller.EventsController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	favoritesController *controller.FavoritesController,
	oneClickController *controller.OneClickController,
	orderController *controller.OrderController,
	syncController *controller.SyncController,
	eventsController *controller.EventsController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		catalogController:   catalogController,
		cartController:      cartController,
		favoritesController: favoritesController,
		oneClickController:  oneClickController,
		orderController:     orderController,
		syncController:      syncController,
		eventsController:    eventsController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MEBELPLAZA API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("", r.catalogController.Browse)
			catalog.GET("/:slug", r.catalogController.GetProduct)
		}

		// Client state endpoints work for guests and users alike: optional
		// auth plus session cookie resolve the state owner.
		visitor := v1.Group("")
		visitor.Use(r.authMiddleware.OptionalAuthenticate(), middleware.Session())
		{
			cart := visitor.Group("/cart")
			{
				cart.GET("", r.cartController.GetCart)
				cart.POST("/items", r.cartController.AddToCart)
				cart.PUT("/items", r.cartController.SetQuantity)
				cart.DELETE("/items", r.cartController.RemoveFromCart)
				cart.DELETE("", r.cartController.ClearCart)
			}

			favorites := visitor.Group("/favorites")
			{
				favorites.GET("", r.favoritesController.GetFavorites)
				favorites.POST("/toggle", r.favoritesController.Toggle)
				favorites.DELETE("", r.favoritesController.Remove)
			}

			oneClick := visitor.Group("/one-click")
			{
				oneClick.GET("", r.oneClickController.Get)
				oneClick.PUT("", r.oneClickController.Set)
				oneClick.DELETE("", r.oneClickController.Clear)
			}

			orders := visitor.Group("/orders")
			{
				orders.POST("", r.orderController.Checkout)
				orders.POST("/one-click", r.orderController.CheckoutOneClick)
				orders.GET("", r.orderController.ListOrders)
				orders.GET("/:id", r.orderController.GetOrder)
			}

			visitor.GET("/events", r.eventsController.Subscribe)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.PATCH("/orders/:id/status", r.orderController.UpdateStatus)
			admin.GET("/orders/export", r.orderController.Export)
			admin.POST("/catalog/sync", r.syncController.TriggerSync)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
