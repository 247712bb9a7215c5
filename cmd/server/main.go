package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	httpapi "rentstack-backend/internal/api/http"
	"rentstack-backend/internal/cache"
	"rentstack-backend/internal/config"
	"rentstack-backend/internal/logger"
	"rentstack-backend/internal/pricing"
	"rentstack-backend/internal/repository/postgres"
	"rentstack-backend/internal/security"
	"rentstack-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentstack Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize availability cache
	var availCache *cache.AvailabilityCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		availCache = cache.NewAvailabilityCache(client, time.Duration(cfg.Redis.TTLSecs)*time.Second)
		logger.Info("Availability cache enabled", "addr", cfg.Redis.Addr, "ttl_seconds", cfg.Redis.TTLSecs)
	} else {
		logger.Info("Availability cache disabled, reads go straight to Postgres")
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SMTP)
	notifier := service.NewNotifier(store.Repos().Notifications, emailSvc)
	gate := service.NewValidationGate(cfg.Rental)
	settings := pricing.SettingsFromConfig(cfg.Pricing)

	authSvc := service.NewAuthService(store.Repos().Customers, tokenManager)
	productSvc := service.NewProductService(store)
	orderSvc := service.NewOrderService(store, gate, settings, availCache, notifier, cfg.Rental)
	inventorySvc := service.NewInventoryService(store, availCache, notifier, cfg.Rental)
	noteSvc := service.NewNotificationService(store.Repos().Notifications)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Products:     httpapi.NewProductHandler(productSvc),
		Orders:       httpapi.NewOrderHandler(orderSvc),
		Inventory:    httpapi.NewInventoryHandler(inventorySvc),
		Notification: httpapi.NewNotificationHandler(noteSvc),
	}, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
