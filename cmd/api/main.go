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
	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/cache"
	"github.com/GTDGit/promo_api/internal/config"
	"github.com/GTDGit/promo_api/internal/database"
	"github.com/GTDGit/promo_api/internal/events"
	"github.com/GTDGit/promo_api/internal/handler"
	"github.com/GTDGit/promo_api/internal/metrics"
	"github.com/GTDGit/promo_api/internal/middleware"
	"github.com/GTDGit/promo_api/internal/repository"
	"github.com/GTDGit/promo_api/internal/seed"
	"github.com/GTDGit/promo_api/internal/service"
	"github.com/GTDGit/promo_api/internal/sse"
	"github.com/GTDGit/promo_api/internal/utils"
	"github.com/GTDGit/promo_api/internal/worker"
)

// main is the application entrypoint for the promotion pricing API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting promo api")

	utils.SetJWTSecret(cfg.JWTSecret)
	decimal.MarshalJSONWithoutQuotes = true

	// 3. Create context for startup and graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Connect database
	db, err := database.Connect(ctx, &cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 4a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 4b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	pricingRuleRepo := repository.NewPricingRuleRepository(db)
	logisticsRuleRepo := repository.NewLogisticsRuleRepository(db)
	promoRepo := repository.NewPromotionRepository(db)
	salesRepo := repository.NewSalesLogRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 6. Initialize rule service and seed data
	ruleCache := cache.NewRuleCache(redisClient, cfg.Redis.RuleCacheTTL)
	ruleSvc := service.NewRuleService(pricingRuleRepo, logisticsRuleRepo, ruleCache)

	if path := cfg.Bootstrap.RulesSeedFile; path != "" {
		rules, err := seed.LoadRules(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to load rule seed file")
			os.Exit(1)
		}
		if err := ruleSvc.Seed(ctx, rules.Pricing, rules.Logistics); err != nil {
			log.Error().Err(err).Msg("failed to seed rules")
			os.Exit(1)
		}
		log.Info().Int("pricing", len(rules.Pricing)).Int("logistics", len(rules.Logistics)).Msg("rules seeded")
	}

	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	if err := adminAuthSvc.Bootstrap(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		log.Error().Err(err).Msg("failed to bootstrap admin account")
		os.Exit(1)
	}

	// 7. Event sinks
	hub := sse.NewHub()
	notifiers := events.Multi{hub}

	var kafkaNotifier *events.KafkaNotifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier = events.NewKafkaNotifier(
			events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			cfg.Kafka.SigningSecret,
		)
		notifiers = append(notifiers, kafkaNotifier)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka event stream enabled")
	}

	// 7a. Export archive
	var archive service.Archiver
	if cfg.ExportArchiveEnabled() {
		s3Svc, err := service.NewS3Service(ctx, &cfg.S3)
		if err != nil {
			log.Warn().Err(err).Msg("S3 service initialization failed - export archive will be disabled")
		} else {
			archive = s3Svc
		}
	}

	// 8. Initialize services
	productSvc := service.NewProductService(productRepo)
	salesSvc := service.NewSalesLogService(salesRepo)
	promoSvc := service.NewPromotionService(promoRepo, productRepo, salesRepo, ruleSvc, notifiers, archive, cfg.Pricing)

	// 9. Initialize handlers
	authLimiter := middleware.NewInvalidAuthRateLimiter(5, time.Minute)
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"database": db.PingContext,
			"redis":    redisClient.Ping,
		}),
		Auth:      handler.NewAuthHandler(adminAuthSvc, authLimiter),
		SSE:       handler.NewSSEHandler(hub),
		Product:   handler.NewProductHandler(productSvc),
		Rule:      handler.NewRuleHandler(ruleSvc),
		SalesLog:  handler.NewSalesLogHandler(salesSvc),
		Promotion: handler.NewPromotionHandler(promoSvc),
	}

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	setupRoutes(router, handlers, middleware.NewJWTMiddleware())

	// 11. Start workers
	go worker.NewStatusCheckWorker(promoSvc, cfg.Worker.StatusReconcileInterval).Start(ctx)

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

	// 16. Flush pending events
	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			log.Error().Err(err).Msg("Kafka writer close failed")
		}
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	SSE       *handler.SSEHandler
	Product   *handler.ProductHandler
	Rule      *handler.RuleHandler
	SalesLog  *handler.SalesLogHandler
	Promotion *handler.PromotionHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	// EventSource cannot send headers; the stream validates ?token itself.
	admin.GET("/sse", handlers.SSE.Stream)
	admin.Use(jwtMiddleware.Handle())
	{
		// Catalog
		admin.GET("/products", handlers.Product.GetProducts)
		admin.GET("/products/categories", handlers.Product.GetCategories)
		admin.GET("/products/:sku", handlers.Product.GetProduct)
		admin.PUT("/products/:sku", handlers.Product.PutProduct)
		admin.DELETE("/products/:sku", handlers.Product.DeleteProduct)

		// Rule tables
		admin.GET("/rules/pricing", handlers.Rule.GetPricingRules)
		admin.PUT("/rules/pricing/:platform", handlers.Rule.PutPricingRule)
		admin.DELETE("/rules/pricing/:platform", handlers.Rule.DeletePricingRule)
		admin.GET("/rules/logistics", handlers.Rule.GetLogisticsRules)
		admin.PUT("/rules/logistics/:id", handlers.Rule.PutLogisticsRule)
		admin.DELETE("/rules/logistics/:id", handlers.Rule.DeleteLogisticsRule)

		// Sales logs
		admin.POST("/sales-logs", handlers.SalesLog.PostLogs)
		admin.GET("/sales-logs", handlers.SalesLog.GetLogs)

		// Promotions
		admin.GET("/promotions", handlers.Promotion.GetPromotions)
		admin.POST("/promotions", handlers.Promotion.CreatePromotion)
		admin.GET("/promotions/:id", handlers.Promotion.GetPromotion)
		admin.PUT("/promotions/:id", handlers.Promotion.UpdatePromotion)
		admin.DELETE("/promotions/:id", handlers.Promotion.DeletePromotion)

		// Promotion items
		admin.GET("/promotions/:id/items", handlers.Promotion.GetItems)
		admin.POST("/promotions/:id/items", handlers.Promotion.AddItems)
		admin.DELETE("/promotions/:id/items/:sku", handlers.Promotion.RemoveItem)
		admin.POST("/promotions/:id/quote", handlers.Promotion.Quote)

		// Analysis
		admin.GET("/promotions/:id/projection", handlers.Promotion.GetProjection)
		admin.GET("/promotions/:id/actuals", handlers.Promotion.GetActuals)

		// Import / export
		admin.POST("/promotions/:id/import", handlers.Promotion.ImportCSV)
		admin.GET("/promotions/:id/export", handlers.Promotion.ExportCSV)
		admin.POST("/promotions/:id/export/archive", handlers.Promotion.ArchiveExport)
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
