package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minkwan/storefront-backend/config"
	"github.com/minkwan/storefront-backend/internal/app/controller"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/minkwan/storefront-backend/internal/middleware"
	"github.com/minkwan/storefront-backend/internal/router"
	"github.com/minkwan/storefront-backend/internal/scheduler"
	"github.com/minkwan/storefront-backend/internal/storage"
	"github.com/minkwan/storefront-backend/internal/websocket"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/minkwan/storefront-backend/pkg/mailer"
	"github.com/minkwan/storefront-backend/pkg/payment"
	"github.com/minkwan/storefront-backend/pkg/redis"
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

	logger.Info("Starting Storefront Backend Server", map[string]interface{}{
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

	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, caching and token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	paymentConfig := payment.Config{
		Provider: payment.Provider(cfg.Payment.Provider),
		BaseURL:  cfg.Payment.BaseURL,
		APIKey:   cfg.Payment.APIKey,
	}

	mail := mailer.New(cfg.SMTP)
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	hub := websocket.NewHub()
	go hub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	collectionRepo := repository.NewCollectionRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	statusRepo := repository.NewStatusRepository(db.GetDB())
	contactRepo := repository.NewContactRepository(db.GetDB())
	subscriptionRepo := repository.NewSubscriptionRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	collectionService := service.NewCollectionService(collectionRepo)
	productService := service.NewProductService(productRepo, collectionRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(
		orderRepo, productRepo, statusRepo, cartRepo, mail, hub, db.GetDB(),
	)
	contactService := service.NewContactService(contactRepo, mail)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo)
	paymentService := service.NewPaymentService(paymentConfig, orderRepo, statusRepo, cfg.Payment.Currency)
	exportService := service.NewExportService(productRepo, orderRepo)

	// Controllers
	authController := controller.NewAuthController(authService)
	collectionController := controller.NewCollectionController(collectionService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	contactController := controller.NewContactController(contactService)
	subscriptionController := controller.NewSubscriptionController(subscriptionService)
	paymentController := controller.NewPaymentController(paymentService)
	adminController := controller.NewAdminController(exportService, s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly cache repair
	refreshScheduler := scheduler.NewRefreshScheduler(collectionService)
	refreshScheduler.Start()
	defer refreshScheduler.Stop()

	r := router.NewRouter(
		authController,
		collectionController,
		productController,
		cartController,
		orderController,
		contactController,
		subscriptionController,
		paymentController,
		adminController,
		authMiddleware,
		hub,
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
