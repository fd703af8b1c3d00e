package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"inventrack-backend/internal/config"
	"inventrack-backend/internal/jobs"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/repository/postgres"
	"inventrack-backend/internal/scheduler"
	"inventrack-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific sweep once and exit (e.g., 'overdue', 'low-stock', 'maintenance', 'daily-summary', 'all')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting InvenTrack cronjob runner...", "log_level", cfg.Log.Level)

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

	// Initialize Services
	var emailSvc service.EmailService
	if cfg.Email.Provider == "sendgrid" {
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridKey, cfg.Email.From, "InvenTrack")
	} else {
		emailSvc = service.NewSMTPEmailService(cfg.Email.Host, cfg.Email.Port, cfg.Email.User, cfg.Email.Password, cfg.Email.From)
	}
	alertSvc := service.NewAlertService(store.ResourceRepository, store.TransactionRepository,
		store.UserRepository, emailSvc, cfg.Auth.AdminEmailDomain, cfg.Alerts.LowStockThreshold)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(alertSvc, cfg)

	// Check if running a single sweep
	if *runOnce != "" {
		logger.Info("Running sweep once", "sweep", *runOnce)
		runSweepOnce(jobRunner, *runOnce)
		logger.Info("Sweep execution completed", "sweep", *runOnce)
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

// runSweepOnce runs a specific sweep once and exits
func runSweepOnce(jobRunner *jobs.JobRunner, name string) {
	switch name {
	case "overdue":
		jobRunner.OverdueSweep()
	case "low-stock":
		jobRunner.LowStockSweep()
	case "maintenance":
		jobRunner.MaintenanceSweep()
	case "daily-summary":
		jobRunner.DailySummary()
	case "all":
		jobRunner.RunAllSweeps()
	default:
		logger.Error("Unknown sweep name", "sweep", name)
		fmt.Printf("Available sweeps:\n")
		fmt.Printf("  - overdue\n")
		fmt.Printf("  - low-stock\n")
		fmt.Printf("  - maintenance\n")
		fmt.Printf("  - daily-summary\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
