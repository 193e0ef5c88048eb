package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Vipigal/ijunior-api-capacitacao/docs"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/config"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/handlers"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/logger"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/mail"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/middlewares"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/repositories"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/services"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title iJunior Capacitação API
// @version 1.0
// @description Role-based API for managing users, contracts and projects.

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting iJunior Capacitação API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Auth primitives
	codec := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Expiry)
	hasher := auth.NewPasswordHasher()

	// Reset-token notification sender
	mailer := mail.NewMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		logger.Logger,
	)

	// Object storage (optional; photo and contract uploads are rejected without it)
	var fileStore *storage.S3Store
	if cfg.AWS.Bucket != "" {
		fileStore, err = storage.NewS3Store(
			context.Background(),
			cfg.AWS.Region,
			cfg.AWS.AccessKey,
			cfg.AWS.SecretKey,
			cfg.AWS.Bucket,
			logger.Logger,
		)
		if err != nil {
			logger.Logger.Fatal("Failed to initialize object storage", zap.Error(err))
		}
	} else {
		logger.Logger.Warn("AWS_BUCKET_NAME not set, file uploads are disabled")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	contractRepo := repositories.NewContractRepository(db, logger.Logger)
	projectRepo := repositories.NewProjectRepository(db, logger.Logger)

	// Initialize services
	userService := services.NewUserService(userRepo, hasher, mailer, logger.Logger)
	sessionService := services.NewSessionService(userRepo, hasher, codec, logger.Logger)
	var contractFiles services.FileStore
	if fileStore != nil {
		contractFiles = fileStore
	}
	contractService := services.NewContractService(contractRepo, contractFiles, logger.Logger)
	projectService := services.NewProjectService(projectRepo, contractRepo, logger.Logger)

	// Initialize handlers
	var uploader handlers.Uploader
	if fileStore != nil {
		uploader = fileStore
	}
	cookieMaxAge := int(cfg.JWT.Expiry.Seconds())
	userHandler := handlers.NewUserHandler(userService, sessionService, uploader, codec, cookieMaxAge, logger.Logger)
	contractHandler := handlers.NewContractHandler(contractService, uploader, codec, logger.Logger)
	projectHandler := handlers.NewProjectHandler(projectService, codec, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestID)
	r.Use(middlewares.Logging(logger.Logger))
	r.Use(middlewares.Recovery(logger.Logger))
	r.Use(middlewares.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimit(20 * 1024 * 1024)) // 20MB, multipart uploads included

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		userHandler.RegisterRoutes(r)
		contractHandler.RegisterRoutes(r)
		projectHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
