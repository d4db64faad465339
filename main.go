// Package main provides the main entry point for the Amberlink ambassador platform
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/amberlink/ambassador-platform/app/handlers"
	"github.com/amberlink/ambassador-platform/app/middleware"
	"github.com/amberlink/ambassador-platform/app/router"
	"github.com/amberlink/ambassador-platform/app/services"
	businessflow "github.com/amberlink/ambassador-platform/business_flow"
	"github.com/amberlink/ambassador-platform/config"
	"github.com/amberlink/ambassador-platform/models"
	"github.com/amberlink/ambassador-platform/repository"
	"github.com/amberlink/ambassador-platform/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Amberlink ambassador platform...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to a rotating file when configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" {
		return
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotating))
	log.Printf("File logging enabled at %s", cfg.FilePath)
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryCommissionRepository(db)
	linkRepo := repository.NewReferralLinkRepository(db)
	clickRepo := repository.NewClickEventRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	settingRepo := repository.NewPlatformSettingRepository(db)

	// Seed the click commission setting on first boot
	if err := ensureClickCommissionSetting(settingRepo, cfg.Platform.DefaultClickCommission); err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Role checks go through the users table
	roleChecker := businessflow.NewRepositoryRoleChecker(userRepo)

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(userRepo, tokenService)

	referralLinkFlow := businessflow.NewReferralLinkFlow(
		linkRepo,
		productRepo,
		userRepo,
		roleChecker,
		cfg.Platform,
	)

	clickTrackingFlow := businessflow.NewClickTrackingFlow(
		linkRepo,
		clickRepo,
		commissionRepo,
		settingRepo,
		db,
		rc,
		&cfg.Cache,
		cfg.Platform,
	)

	orderFlow := businessflow.NewOrderFlow(
		orderRepo,
		productRepo,
		categoryRepo,
		linkRepo,
		commissionRepo,
		userRepo,
		roleChecker,
		db,
		cfg.Platform,
	)

	commissionFlow := businessflow.NewCommissionFlow(commissionRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authFlow)
	referralHandler := handlers.NewReferralLinkHandler(referralLinkFlow)
	clickHandler := handlers.NewClickHandler(clickTrackingFlow)
	orderHandler := handlers.NewOrderHandler(orderFlow)
	commissionHandler := handlers.NewCommissionHandler(commissionFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		authHandler,
		referralHandler,
		clickHandler,
		orderHandler,
		commissionHandler,
		authMiddleware,
	)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureClickCommissionSetting seeds click_commission_amount when absent so a
// fresh deployment starts with the configured default.
func ensureClickCommissionSetting(settingRepo repository.PlatformSettingRepository, defaultAmount float64) error {
	existing, err := settingRepo.ByKey(context.Background(), utils.ClickCommissionSettingKey)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	row := models.PlatformSetting{
		Key:   utils.ClickCommissionSettingKey,
		Value: strconv.FormatFloat(defaultAmount, 'f', -1, 64),
	}
	if err := settingRepo.Save(context.Background(), &row); err != nil {
		return err
	}
	log.Printf("Seeded %s=%s", utils.ClickCommissionSettingKey, row.Value)
	return nil
}
