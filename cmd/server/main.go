package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dsaidov/mebelplaza-backend/config"
	"github.com/dsaidov/mebelplaza-backend/internal/app/controller"
	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/app/service"
	"github.com/dsaidov/mebelplaza-backend/internal/cms"
	"github.com/dsaidov/mebelplaza-backend/internal/db"
	"github.com/dsaidov/mebelplaza-backend/internal/middleware"
	"github.com/dsaidov/mebelplaza-backend/internal/router"
	"github.com/dsaidov/mebelplaza-backend/internal/scheduler"
	"github.com/dsaidov/mebelplaza-backend/internal/storage"
	ws "github.com/dsaidov/mebelplaza-backend/internal/websocket"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"github.com/dsaidov/mebelplaza-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MEBELPLAZA Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	stateRepo := repository.NewStateRepository(redis.GetClient())

	// External clients
	cmsClient := cms.NewClient(cfg.CMS.BaseURL, cfg.CMS.APIToken, cfg.CMS.PageSize)
	exportStore := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(stateRepo, productRepo)
	favoritesService := service.NewFavoritesService(stateRepo, productRepo)
	oneClickService := service.NewOneClickService(stateRepo, productRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, productRepo, stateRepo)
	exportService := service.NewExportService(orderRepo, exportStore)
	syncService := service.NewCatalogSyncService(cmsClient, productRepo)

	// Websocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Catalog sync scheduler
	catalogScheduler := scheduler.NewCatalogScheduler(syncService, hub, cfg.CMS.SyncSchedule)
	if err := catalogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Sync once at startup so a fresh deployment has a catalog.
	go catalogScheduler.RunNow()

	defaultRegion := model.ParseRegion(cfg.Catalog.DefaultRegion)

	// Controllers
	authController := controller.NewAuthController(authService)
	catalogController := controller.NewCatalogController(catalogService, defaultRegion)
	cartController := controller.NewCartController(cartService)
	favoritesController := controller.NewFavoritesController(favoritesService)
	oneClickController := controller.NewOneClickController(oneClickService)
	orderController := controller.NewOrderController(orderService, exportService, defaultRegion)
	syncController := controller.NewSyncController(syncService, hub)
	eventsController := controller.NewEventsController(hub, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		catalogController,
		cartController,
		favoritesController,
		oneClickController,
		orderController,
		syncController,
		eventsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
