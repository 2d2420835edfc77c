package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"barpos/internal/caching"
	"barpos/internal/common"
	"barpos/internal/handlers"
	"barpos/internal/jobs"
	"barpos/internal/jobs/background"
	"barpos/internal/middleware"
	"barpos/internal/repositories"
	"barpos/internal/services"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// How many tables the floor has. Seeding is idempotent so restarts with
	// the same count are safe.
	tableCount := 20
	if tableCountStr := os.Getenv("TABLE_COUNT"); tableCountStr != "" {
		if n, err := strconv.Atoi(tableCountStr); err == nil && n > 0 {
			tableCount = n
		}
	}

	clock := clockwork.NewRealClock()

	// Create repositories
	txManager := repositories.NewTxManager(pool)
	tableRepo := repositories.NewTableRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Lock registry shared between the order lifecycle and the alert monitor
	locks := common.NewKeyedMutex()

	// Create services
	tableSvc := services.NewTableService(tableRepo)
	saleSvc := services.NewSaleService(saleRepo, productRepo, clock)
	orderSvc := services.NewOrderService(txManager, tableRepo, orderRepo, orderItemRepo, productRepo, saleSvc, locks, clock)
	productSvc := services.NewProductService(productRepo, categoryRepo, orderItemRepo, cacheSvc)
	categorySvc := services.NewCategoryService(categoryRepo, productRepo)
	authSvc := services.NewAuthService(userRepo, jwtSecret, clock)
	receiptSvc := services.NewReceiptService(saleSvc, minioSvc)

	// Seed the fixed table layout
	if err := tableSvc.InitializeTables(context.Background(), tableCount); err != nil {
		log.Fatalf("Failed to initialize tables: %v", err)
	}

	// Background alert monitor
	alertSvc := jobs.NewTableAlertService(tableRepo, locks, clock, jobs.DefaultAlertThreshold)
	scheduler, err := background.NewJobScheduler(alertSvc, clock)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create handlers
	tableHandlers := handlers.NewTableHandlers(tableSvc, scheduler)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	reportHandlers := handlers.NewReportHandlers(saleSvc, receiptSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", handlers.ReadinessCheck(pool))

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	protected.GET("/me", authHandlers.Me)

	// Table routes
	protected.GET("/tables", tableHandlers.ListTables)
	protected.GET("/tables/:id", tableHandlers.GetTable)
	protected.POST("/tables/init-monitoring", tableHandlers.InitMonitoring)

	// Order routes
	protected.POST("/orders/start/:tableId", orderHandlers.StartOrder)
	protected.GET("/orders/by-table/:tableId", orderHandlers.GetOrderByTable)
	protected.GET("/orders/:orderId", orderHandlers.GetOrder)
	protected.POST("/orders/:orderId/items", orderHandlers.AddItem)
	protected.PUT("/orders/:orderId/items/:itemId", orderHandlers.UpdateItemQuantity)
	protected.DELETE("/orders/:orderId/items/:itemId", orderHandlers.RemoveItem)
	protected.POST("/orders/:orderId/close", orderHandlers.CloseOrder)
	protected.POST("/orders/:orderId/cancel", orderHandlers.CancelOrder)

	// Catalog routes
	protected.GET("/categories", categoryHandlers.ListCategories)
	protected.POST("/categories", categoryHandlers.CreateCategory)
	protected.GET("/categories/:id", categoryHandlers.GetCategory)
	protected.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	protected.GET("/products", productHandlers.ListProducts)
	protected.POST("/products", productHandlers.CreateProduct)
	protected.GET("/products/:id", productHandlers.GetProduct)
	protected.PUT("/products/:id", productHandlers.UpdateProduct)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct)

	// Reporting routes
	protected.GET("/reports/sales", reportHandlers.ListSales)
	protected.GET("/reports/sales/by-date", reportHandlers.GetSalesByDate)
	protected.GET("/reports/sales/:id", reportHandlers.GetSale)
	protected.DELETE("/reports/sales/:id", reportHandlers.CancelSale)
	protected.POST("/reports/sales/:id/receipt", reportHandlers.GenerateReceipt)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("barpos server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
