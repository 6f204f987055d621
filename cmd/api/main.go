package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/celtec/pos-api/docs" // Swagger docs
	"github.com/celtec/pos-api/internal/config"
	"github.com/celtec/pos-api/internal/database"
	"github.com/celtec/pos-api/internal/handlers"
	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/middleware"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/celtec/pos-api/internal/services"
	"github.com/celtec/pos-api/internal/storage"
	"github.com/celtec/pos-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title CelTec POS API
// @version 1.0
// @description REST API for the CelTec phone shop point of sale and inventory system

// @contact.name API Support
// @contact.email soporte@celtec.hn

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Payment reminders and repair notices will not be sent.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize receipt storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/restore", h.User.Restore)
				admin.PUT("/users/:user_id/toggle_status", h.User.ToggleStatus)

				// Destructive catalog operations
				admin.DELETE("/categories/:category_id", h.Category.Delete)
				admin.DELETE("/products/:product_id", h.Product.Delete)
				admin.DELETE("/imeis/:imei_id", h.IMEI.Delete)

				// Suppliers and soft-deleted customers
				admin.DELETE("/suppliers/:supplier_id", h.Supplier.Delete)
				admin.DELETE("/customers/:customer_id", h.Customer.Delete)
				admin.POST("/customers/:customer_id/restore", h.Customer.Restore)

				// Trade-in resolution
				admin.PUT("/trade-ins/:trade_in_id", h.TradeIn.Update)
				admin.POST("/trade-ins/:trade_in_id/accept", h.TradeIn.Accept)
				admin.POST("/trade-ins/:trade_in_id/reject", h.TradeIn.Reject)

				// Expense cleanup
				admin.DELETE("/expenses/:expense_id", h.Expense.Delete)
				admin.DELETE("/expense_categories/:category_id", h.Expense.DeleteCategory)

				// Warranty removal
				admin.DELETE("/warranties/:warranty_id", h.Warranty.Delete)

				// Audit log
				admin.GET("/audits", h.Audit.Index)

				// Worker status
				admin.GET("/jobs/status", h.Job.Status)
			}

			// User profile access (admin or owner)
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)

			// Customers
			protected.GET("/customers", h.Customer.Index)
			protected.GET("/customers/:customer_id", h.Customer.Show)
			protected.POST("/customers", h.Customer.Create)
			protected.PUT("/customers/:customer_id", h.Customer.Update)

			// Suppliers
			protected.GET("/suppliers", h.Supplier.Index)
			protected.GET("/suppliers/:supplier_id", h.Supplier.Show)
			protected.POST("/suppliers", h.Supplier.Create)
			protected.PUT("/suppliers/:supplier_id", h.Supplier.Update)

			// Categories
			protected.GET("/categories", h.Category.Index)
			protected.GET("/categories/:category_id", h.Category.Show)
			protected.POST("/categories", h.Category.Create)
			protected.PUT("/categories/:category_id", h.Category.Update)

			// Products
			protected.GET("/products", h.Product.Index)
			protected.GET("/products/:product_id", h.Product.Show)
			protected.POST("/products", h.Product.Create)
			protected.PUT("/products/:product_id", h.Product.Update)

			// IMEI units
			protected.GET("/imeis", h.IMEI.Index)
			protected.GET("/imeis/:imei_id", h.IMEI.Show)
			protected.POST("/imeis", h.IMEI.Create)
			protected.POST("/imeis/bulk", h.IMEI.BulkCreate)
			protected.PUT("/imeis/:imei_id/status", h.IMEI.UpdateStatus)

			// Sales
			protected.GET("/sales", h.Sale.Index)
			protected.GET("/sales/:sale_id", h.Sale.Show)
			protected.POST("/sales", h.Sale.Create)

			// Installment plans
			protected.GET("/installments", h.Installment.Index)
			protected.GET("/installments/:installment_id", h.Installment.Show)
			protected.POST("/installments", h.Installment.Create)
			protected.POST("/installments/:installment_id/payments", h.Installment.AddPayment)
			protected.POST("/installments/:installment_id/payments/:payment_id/receipt", h.Installment.UploadReceipt)
			protected.GET("/installments/:installment_id/payments/:payment_id/receipt", h.Installment.DownloadReceipt)

			// Expenses
			protected.GET("/expense_categories", h.Expense.IndexCategories)
			protected.POST("/expense_categories", h.Expense.CreateCategory)
			protected.PUT("/expense_categories/:category_id", h.Expense.UpdateCategory)
			protected.GET("/expenses", h.Expense.Index)
			protected.GET("/expenses/:expense_id", h.Expense.Show)
			protected.POST("/expenses", h.Expense.Create)
			protected.PUT("/expenses/:expense_id", h.Expense.Update)

			// Repair orders
			protected.GET("/repairs", h.Repair.Index)
			protected.GET("/repairs/:repair_id", h.Repair.Show)
			protected.POST("/repairs", h.Repair.Create)
			protected.PUT("/repairs/:repair_id", h.Repair.Update)
			protected.PUT("/repairs/:repair_id/status", h.Repair.UpdateStatus)
			protected.GET("/repairs/:repair_id/ticket", h.Repair.TicketPDF)

			// Trade-ins
			protected.GET("/trade-ins", h.TradeIn.Index)
			protected.GET("/trade-ins/:trade_in_id", h.TradeIn.Show)
			protected.POST("/trade-ins", h.TradeIn.Create)
			protected.POST("/trade-ins/:trade_in_id/resell", h.TradeIn.Resell)

			// Warranties
			protected.GET("/warranties", h.Warranty.Index)
			protected.GET("/warranties/:warranty_id", h.Warranty.Show)
			protected.POST("/warranties", h.Warranty.Create)
			protected.PUT("/warranties/:warranty_id", h.Warranty.Update)
			protected.PUT("/warranties/:warranty_id/status", h.Warranty.UpdateStatus)

			// Reports and exports
			reports := protected.Group("/reports")
			{
				reports.GET("/sales", h.Report.Sales)
				reports.GET("/sales/csv", h.Report.SalesCSV)
				reports.GET("/sales/xlsx", h.Report.SalesXLSX)
				reports.GET("/expenses", h.Report.Expenses)
				reports.GET("/profit-loss", h.Report.ProfitAndLoss)
				reports.GET("/profit-loss/pdf", h.Report.ProfitAndLossPDF)
				reports.GET("/inventory", h.Report.Inventory)
				reports.GET("/inventory/xlsx", h.Report.InventoryXLSX)
				reports.GET("/customers/:customer_id/statement", h.Report.CustomerStatementPDF)
			}

			// Notifications (users manage their own)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.GET("/:notification_id", h.Notification.Show)
				notifications.PUT("/:notification_id", h.Notification.Update)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Flag overdue installment plans and queue payment reminders every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue installments...")
		return svcs.Installment.CheckOverdueInstallments(ctx)
	})

	// Notify admins about products at or below the low stock threshold daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking low stock products...")
		return svcs.Catalog.CheckLowStock(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
