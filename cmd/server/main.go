package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/essence-za/essence-backend/config"
	"github.com/essence-za/essence-backend/internal/app/controller"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/internal/app/service"
	"github.com/essence-za/essence-backend/internal/db"
	"github.com/essence-za/essence-backend/internal/middleware"
	"github.com/essence-za/essence-backend/internal/router"
	"github.com/essence-za/essence-backend/internal/scheduler"
	"github.com/essence-za/essence-backend/internal/storage"
	"github.com/essence-za/essence-backend/pkg/logger"
	"github.com/essence-za/essence-backend/pkg/payment/stripe"
	"github.com/essence-za/essence-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ESSENCE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations and seed defaults
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.SeedAdminUser(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Warn("Failed to seed admin user", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis for session carts
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	defer redis.Close()

	// Initialize payment client
	stripeClient, err := stripe.NewClient(stripe.Config{
		SecretKey:  cfg.Payment.Stripe.SecretKey,
		BaseURL:    cfg.Payment.Stripe.BaseURL,
		SuccessURL: cfg.Payment.Stripe.SuccessURL,
		CancelURL:  cfg.Payment.Stripe.CancelURL,
		Currency:   cfg.Payment.Stripe.Currency,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment client", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	settingRepo := repository.NewSettingRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(redis.GetClient(), cfg.Cart.SessionTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	productService := service.NewProductService(productRepo)
	settingService := service.NewSettingService(settingRepo)
	cartService := service.NewCartService(cartRepo, productRepo, settingService)
	orderService := service.NewOrderService(orderRepo)
	checkoutService := service.NewCheckoutService(cartService, settingService, orderRepo, stripeClient)

	// Initialize storage
	imageStorage := storage.NewImageStorage(&cfg.S3)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService, settingService)
	checkoutController := controller.NewCheckoutController(checkoutService, cartService, orderService)
	settingController := controller.NewSettingController(settingService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(imageStorage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the new-arrival cleanup scheduler
	arrivalScheduler := scheduler.NewNewArrivalScheduler(productRepo)
	if err := arrivalScheduler.Start(); err != nil {
		logger.Warn("Failed to start new-arrival scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer arrivalScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		checkoutController,
		settingController,
		orderController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
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

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
