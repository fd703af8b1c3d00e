package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "inventrack-backend/internal/api/http"
	"inventrack-backend/internal/config"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/repository/postgres"
	"inventrack-backend/internal/security"
	"inventrack-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting InvenTrack backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.ResetTokenExpiry)

	// Initialize Services
	emailSvc := newEmailService(cfg)
	activitySvc := service.NewActivityService(store.ActivityRepository)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, emailSvc, activitySvc, cfg.Auth.AdminEmailDomain)
	userSvc := service.NewUserService(store.UserRepository, activitySvc, cfg.Auth.AdminEmailDomain)
	resourceSvc := service.NewResourceService(store.ResourceRepository, store.TransactionRepository,
		store.UserRepository, emailSvc, activitySvc, cfg.Auth.AdminEmailDomain, cfg.Alerts.LowStockThreshold)
	transactionSvc := service.NewTransactionService(store.TransactionRepository, store.ResourceRepository, activitySvc)
	reportSvc := service.NewReportService(store.ResourceRepository, store.TransactionRepository,
		store.UserRepository, store.ActivityRepository, activitySvc, cfg.Alerts.LowStockThreshold)

	// Initialize HTTP API
	middleware := httpapi.NewMiddleware(tokenManager, store.UserRepository, cfg.Auth.AdminEmailDomain)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:        httpapi.NewAuthHandler(authSvc),
		User:        httpapi.NewUserHandler(userSvc),
		Resource:    httpapi.NewResourceHandler(resourceSvc),
		Transaction: httpapi.NewTransactionHandler(transactionSvc),
		Report:      httpapi.NewReportHandler(reportSvc, activitySvc),
	}, middleware)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

func newEmailService(cfg *config.Config) service.EmailService {
	if cfg.Email.Provider == "sendgrid" {
		logger.Info("Using SendGrid email provider")
		return service.NewSendGridEmailService(cfg.Email.SendGridKey, cfg.Email.From, "InvenTrack")
	}
	logger.Info("Using SMTP email provider", "host", cfg.Email.Host, "port", cfg.Email.Port)
	return service.NewSMTPEmailService(cfg.Email.Host, cfg.Email.Port, cfg.Email.User, cfg.Email.Password, cfg.Email.From)
}
