package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/sunshineiot/evolte-auth/internal/auth"
	"github.com/sunshineiot/evolte-auth/internal/config"
	"github.com/sunshineiot/evolte-auth/internal/database"
	"github.com/sunshineiot/evolte-auth/internal/email"
	httpServer "github.com/sunshineiot/evolte-auth/internal/http"
	"github.com/sunshineiot/evolte-auth/internal/logging"
	"github.com/sunshineiot/evolte-auth/internal/storage"
	"github.com/sunshineiot/evolte-auth/internal/user"

	_ "github.com/sunshineiot/evolte-auth/docs" // Swagger docs (generated)
)

// @title           E-Volte Auth API
// @version         1.0
// @description     Passwordless authentication backend: email OTP login, verification, and profile pictures.

// @contact.name   API Support
// @contact.email  support@sunshineiot.in

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection and apply migrations
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize profile picture store
	fileStore, err := storage.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		return fmt.Errorf("failed to initialize file store: %w", err)
	}

	// Initialize email service
	emailService := email.NewService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// Initialize auth service
	userRepo := user.NewRepository(db)
	authService := auth.NewService(
		userRepo,
		emailService,
		fileStore,
		logger,
		cfg.Auth.OTPTTL,
		cfg.Auth.BypassEmail,
	)

	if cfg.Auth.BypassEmail != "" {
		logger.Warn("OTP verification bypass is enabled", "email", cfg.Auth.BypassEmail)
	}

	// Initialize HTTP handlers and router
	authHandler := auth.NewHandler(authService, logger, cfg.Upload.MaxFileSize)
	router := httpServer.NewRouter(cfg, authHandler, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
