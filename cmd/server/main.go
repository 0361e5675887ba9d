package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"jobboard_echo/internal/handlers"
	appMiddleware "jobboard_echo/internal/middleware"
	"jobboard_echo/internal/services"
)

func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}
	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Warn().Err(err).Msg("firebase initialization failed, auth routes will reject requests")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	// Redis cache is optional; the catalog falls back to direct reads
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, catalog caching disabled")
			cache = nil
		}
	}

	// Payment gateway
	gateway := services.NewGatewayClient(
		os.Getenv("GATEWAY_MERCHANT_CODE"),
		os.Getenv("GATEWAY_SECRET_KEY"),
		os.Getenv("GATEWAY_PAY_URL"),
	)

	// Services
	catalog := services.NewPackageCatalog(db, cache)
	intents := services.NewIntentStore(db)
	reconciler := services.NewReconciler(db, catalog)
	approval := services.NewApprovalService(db)
	orderQuery := services.NewOrderQueryService(db)

	// Handlers
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = baseURL
	}

	paymentHandler := handlers.NewPaymentHandler(db, gateway, reconciler, intents, catalog, baseURL, frontendURL)
	userOrderHandler := handlers.NewUserOrderHandler(orderQuery)
	adminOrderHandler := handlers.NewAdminOrderHandler(orderQuery, approval)
	packageHandler := handlers.NewPackageHandler(db, catalog)
	bannerHandler := handlers.NewBannerHandler(db)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = appMiddleware.JSONErrorHandler

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	// Public routes
	e.GET("/payment/return", paymentHandler.GatewayReturn)
	e.POST("/api/payment/verify", paymentHandler.VerifyPayment)
	e.GET("/api/banners", bannerHandler.ListActive)
	e.GET("/api/packages", packageHandler.ListPackages)

	// Authenticated payer routes
	api := e.Group("/api")
	api.Use(appMiddleware.RequireAuth(authClient, db))
	api.POST("/checkout/banner", paymentHandler.CheckoutBanner)
	api.POST("/checkout/job-feature", paymentHandler.CheckoutJobFeature)
	api.GET("/my/orders", userOrderHandler.MyOrders)

	// Admin routes
	admin := e.Group("/api/admin")
	admin.Use(appMiddleware.RequireAuth(authClient, db), appMiddleware.RequireAdmin())
	admin.GET("/orders", adminOrderHandler.ListOrders)
	admin.GET("/orders/:id", adminOrderHandler.GetOrder)
	admin.POST("/orders/:id/approve", adminOrderHandler.ApproveOrder)
	admin.POST("/packages", packageHandler.CreatePackage)
	admin.PUT("/packages/:id", packageHandler.UpdatePackage)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := e.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
