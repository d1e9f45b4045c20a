package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rehabdelivery/rehab_api/internal/cache"
	"github.com/rehabdelivery/rehab_api/internal/config"
	"github.com/rehabdelivery/rehab_api/internal/database"
	"github.com/rehabdelivery/rehab_api/internal/handler"
	"github.com/rehabdelivery/rehab_api/internal/middleware"
	"github.com/rehabdelivery/rehab_api/internal/repository"
	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
	"github.com/rehabdelivery/rehab_api/internal/worker"
	"github.com/rehabdelivery/rehab_api/pkg/claude"
)

// main is the application entrypoint for the Rehab delivery API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting rehab api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize staging cache for ingestion batches
	stagingCache := cache.NewStagingCache(redisClient, cfg.Staging.TTL)

	// 4. Initialize the extraction client
	extractClient := claude.NewClient(cfg.Extract.APIKey, cfg.Extract.Model, cfg.Extract.FallbackModel)

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 6. Initialize services
	adminSvc := service.NewAdminService(adminRepo)
	stockSvc := service.NewStockService(productRepo, workerRepo, companyRepo)
	intakeSvc := service.NewIntakeService(productRepo)
	companySvc := service.NewCompanyService(companyRepo)
	workerSvc := service.NewWorkerService(workerRepo)
	treasurySvc := service.NewTreasuryService(productRepo, companyRepo, workerRepo)

	archiveSvc, err := service.NewArchiveService(&cfg.Archive)
	if err != nil {
		log.Warn().Err(err).Msg("Archive service initialization failed - sheet archiving will be disabled")
	}

	var archiver service.Archiver
	if archiveSvc != nil {
		archiver = archiveSvc
	}
	ingestSvc := service.NewIngestService(extractClient, archiver, stagingCache, intakeSvc, companyRepo, cfg.Extract.Timeout)

	// 7. Initialize handlers
	authRateLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(adminSvc, authRateLimiter),
		Product:  handler.NewProductHandler(stockSvc),
		Ingest:   handler.NewIngestHandler(ingestSvc),
		Treasury: handler.NewTreasuryHandler(treasurySvc),
		Company:  handler.NewCompanyHandler(companySvc),
		Worker:   handler.NewWorkerHandler(workerSvc, stockSvc),
		Admin:    handler.NewAdminHandler(adminSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewStaleDeliveryWorker(productRepo, cfg.Worker.StaleDeliveryInterval, cfg.Worker.StaleDeliveryAfter).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Ingest   *handler.IngestHandler
	Treasury *handler.TreasuryHandler
	Company  *handler.CompanyHandler
	Worker   *handler.WorkerHandler
	Admin    *handler.AdminHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	v1 := router.Group("/v1")
	v1.POST("/auth/login", handlers.Auth.Login)
	v1.Use(jwtMiddleware.Handle())
	{
		v1.GET("/auth/me", handlers.Auth.Me)

		// Stock
		v1.GET("/dashboard", handlers.Product.Dashboard)
		v1.GET("/products", handlers.Product.List)
		v1.POST("/products", handlers.Product.Create)
		v1.GET("/products/:id", handlers.Product.Get)
		v1.DELETE("/products/:id", handlers.Product.Delete)

		// Lifecycle
		v1.POST("/products/:id/assign", handlers.Product.Assign)
		v1.POST("/products/:id/detach", handlers.Product.Detach)
		v1.POST("/products/:id/deliver", handlers.Product.MarkDelivered)
		v1.POST("/products/:id/revert", handlers.Product.Revert)
		v1.POST("/products/:id/cancel", handlers.Product.Cancel)
		v1.PUT("/products/:id/status", handlers.Product.SetStatus)

		// Bulk ingestion
		v1.POST("/ingest", handlers.Ingest.Upload)
		v1.GET("/ingest/:id", handlers.Ingest.GetBatch)
		v1.PUT("/ingest/:id/rows/:index", handlers.Ingest.UpdateRow)
		v1.DELETE("/ingest/:id/rows/:index", handlers.Ingest.RemoveRow)
		v1.POST("/ingest/:id/commit", handlers.Ingest.Commit)
		v1.DELETE("/ingest/:id", handlers.Ingest.Discard)

		// Treasury
		v1.GET("/treasury", handlers.Treasury.GetSettlement)
		v1.POST("/treasury/reset", middleware.RequireSuper(), handlers.Treasury.Reset)

		// Companies
		v1.GET("/companies", handlers.Company.List)
		v1.POST("/companies", handlers.Company.Create)
		v1.DELETE("/companies/:id", handlers.Company.Delete)

		// Delivery workers
		v1.GET("/workers", handlers.Worker.List)
		v1.POST("/workers", handlers.Worker.Create)
		v1.GET("/workers/:id", handlers.Worker.Get)
		v1.PUT("/workers/:id", handlers.Worker.Update)
		v1.DELETE("/workers/:id", handlers.Worker.Delete)
		v1.GET("/workers/:id/sheet", handlers.Worker.Sheet)

		// Admin accounts (super admin only)
		admins := v1.Group("/admins", middleware.RequireSuper())
		{
			admins.GET("", handlers.Admin.List)
			admins.POST("", handlers.Admin.Create)
			admins.PUT("/:id/role", handlers.Admin.UpdateRole)
			admins.DELETE("/:id", handlers.Admin.Delete)
		}
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
