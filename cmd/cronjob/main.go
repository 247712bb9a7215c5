package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"rentstack-backend/internal/cache"
	"rentstack-backend/internal/config"
	"rentstack-backend/internal/jobs"
	"rentstack-backend/internal/logger"
	"rentstack-backend/internal/pricing"
	"rentstack-backend/internal/repository/postgres"
	"rentstack-backend/internal/scheduler"
	"rentstack-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'mark-overdue-orders', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentstack Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize availability cache so mutations made by jobs invalidate it
	var availCache *cache.AvailabilityCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		availCache = cache.NewAvailabilityCache(client, time.Duration(cfg.Redis.TTLSecs)*time.Second)
	}

	// Initialize Services
	emailService := service.NewEmailService(cfg.SMTP)
	notifier := service.NewNotifier(store.Repos().Notifications, emailService)
	gate := service.NewValidationGate(cfg.Rental)
	settings := pricing.SettingsFromConfig(cfg.Pricing)

	orderService := service.NewOrderService(store, gate, settings, availCache, notifier, cfg.Rental)
	inventoryService := service.NewInventoryService(store, availCache, notifier, cfg.Rental)

	jobServices := &jobs.Services{
		Email:     emailService,
		Order:     orderService,
		Inventory: inventoryService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, notifier, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "secure-upcoming-reservations":
		jobRunner.SecureUpcomingReservations()
	case "mark-overdue-orders":
		jobRunner.MarkOverdueOrders()
	case "send-return-reminders":
		jobRunner.SendReturnReminders()
	case "report-low-stock":
		jobRunner.ReportLowStock()
	case "audit-overcommit":
		jobRunner.AuditOvercommit()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - secure-upcoming-reservations\n")
		fmt.Printf("  - mark-overdue-orders\n")
		fmt.Printf("  - send-return-reminders\n")
		fmt.Printf("  - report-low-stock\n")
		fmt.Printf("  - audit-overcommit\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
