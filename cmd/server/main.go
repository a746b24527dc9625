package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/thando/renthub/internal/api"
	"github.com/thando/renthub/internal/authz"
	"github.com/thando/renthub/internal/cache"
	"github.com/thando/renthub/internal/config"
	"github.com/thando/renthub/internal/logger"
	"github.com/thando/renthub/internal/mail"
	"github.com/thando/renthub/internal/repository/postgres"
	"github.com/thando/renthub/internal/service"
	"github.com/thando/renthub/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.Environment)
	defer zlog.Sync()

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	ctx := context.Background()

	// Object store and mailer fall back to local-friendly stand-ins when
	// the AWS side is not configured.
	var store storage.ObjectStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			zlog.Fatal("failed to initialize object store", zap.Error(err))
		}
		store = s3Store
	} else {
		zlog.Warn("S3_BUCKET not set, uploads disabled")
	}

	var mailer mail.Mailer
	if cfg.MailFrom != "" {
		sesMailer, err := mail.NewSESMailer(ctx, cfg.AWSRegion, cfg.MailFrom)
		if err != nil {
			zlog.Fatal("failed to initialize mailer", zap.Error(err))
		}
		mailer = sesMailer
	} else {
		mailer = &mail.LogMailer{Log: zlog}
	}

	// Initialize services
	queryCache := cache.New()
	services := service.NewServices(repos, queryCache, mailer, cfg, zlog)
	gate := authz.NewGate(repos.Profile, zlog)

	// Initialize router
	router := api.NewRouter(services, gate, store, cfg, zlog)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server stopped")
}
