package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/haruyama/pos-backend/config"
	"github.com/haruyama/pos-backend/internal/app/controller"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/app/service"
	"github.com/haruyama/pos-backend/internal/app/session"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/haruyama/pos-backend/internal/middleware"
	"github.com/haruyama/pos-backend/internal/router"
	"github.com/haruyama/pos-backend/internal/scheduler"
	"github.com/haruyama/pos-backend/pkg/logger"
	"github.com/haruyama/pos-backend/pkg/redis"
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

	logger.Info("Starting POS Backend Server", map[string]interface{}{
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

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Make sure an admin account exists on a fresh deployment
	if err := db.SeedAdminUser(); err != nil {
		logger.Warn("Failed to seed admin user", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Session store: Redis when available, in-process otherwise
	var cartStore session.CartStore
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, using in-memory session store", map[string]interface{}{
			"error": err.Error(),
		})
		cartStore = session.NewMemoryCartStore()
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close redis connection", err)
			}
		}()
		cartStore = session.NewRedisCartStore(redis.GetClient(), cfg.Session.CartTTL)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	optionRepo := repository.NewProductOptionRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	attemptRepo := repository.NewLoginAttemptRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, attemptRepo, &cfg.JWT, &cfg.Auth)
	productService := service.NewProductService(productRepo, optionRepo)
	cartService := service.NewCartService(cartStore, productRepo)
	checkoutService := service.NewCheckoutService(db.GetDB(), cartStore, cartService)
	orderService := service.NewOrderService(orderRepo)
	userService := service.NewUserService(userRepo)
	statsService := service.NewStatsService(orderRepo)
	reportService := service.NewReportService(orderRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, userService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService, reportService)
	userController := controller.NewUserController(userService)
	statsController := controller.NewStatsController(statsService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the login attempt purge scheduler
	attemptScheduler := scheduler.NewLoginAttemptScheduler(attemptRepo, cfg.Auth.BlockTime)
	if err := attemptScheduler.Start(); err != nil {
		logger.Fatal("Failed to start login attempt scheduler", err)
	}
	defer attemptScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		checkoutController,
		orderController,
		userController,
		statsController,
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
