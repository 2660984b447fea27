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

	_ "github.com/sjperalta/billing-api/docs" // Swagger docs
	"github.com/sjperalta/billing-api/internal/config"
	"github.com/sjperalta/billing-api/internal/handlers"
	"github.com/sjperalta/billing-api/internal/middleware"
	"github.com/sjperalta/billing-api/internal/repository"
	"github.com/sjperalta/billing-api/internal/services"
	"github.com/sjperalta/billing-api/internal/storage"
	"github.com/sjperalta/billing-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Billing API
// @version 1.0
// @description REST API for recording customer project bills, staged payments and deductions, and printing PDF receipts

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry (GlitchTip) when DSN is configured
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

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize storage
	maxUpload := int64(cfg.MaxUploadMB) << 20
	files, err := storage.NewLocalStorage(cfg.StoragePath, maxUpload)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", cfg.StoragePath)

	// Open the record store
	repos, err := repository.NewRepositories(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open record store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	logger.Info("Opened record store", "backend", repos.Backend)

	// Initialize services
	svcs := services.NewServices(repos, files)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, files)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

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

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)

		records := v1.Group("/records")
		{
			records.GET("", h.Record.Index)
			records.POST("", h.Record.Create)
			records.GET("/export", h.Record.Export)
			records.GET("/:receipt_no", h.Record.Show)
			records.POST("/:receipt_no/payments", h.Record.UpdatePayment)
			records.POST("/:receipt_no/deductions", h.Record.UpdateDeduction)
			records.GET("/:receipt_no/receipt", h.Receipt.Download)
			records.POST("/:receipt_no/receipt", h.Receipt.DownloadWithImage)
		}

		v1.PUT("/terms_image", h.Receipt.SetTermsImage)
	}

	return router
}
