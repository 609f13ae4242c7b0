package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/internal/router"
	"github.com/anonto42/info-blog/backend/internal/scraper"
	"github.com/anonto42/info-blog/backend/pkg/config"
	"github.com/anonto42/info-blog/backend/pkg/firebase"
	"github.com/anonto42/info-blog/backend/pkg/logger"
	"github.com/anonto42/info-blog/backend/pkg/mailer"
	"github.com/anonto42/info-blog/backend/pkg/metrics"
	"github.com/anonto42/info-blog/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	ctx := context.Background()

	tokens, closeTokens, err := newTokenRepository(ctx, cfg, db)
	if err != nil {
		logger.Log.Fatal("failed to initialize token store", zap.Error(err))
	}
	defer closeTokens()

	store, err := newImageStore(ctx, cfg, db)
	if err != nil {
		logger.Log.Fatal("failed to initialize image store", zap.Error(err))
	}

	var m mailer.Mailer = mailer.NewLogMailer(cfg.PublicURL)
	if cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.PublicURL)
	} else {
		logger.Log.Warn("SMTP_HOST not set, activation mails are only logged")
	}

	appMetrics := metrics.New()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	config.SetupMiddleware(e, appMetrics)

	// Setup routes and dependencies
	err = router.SetupRoutes(e, router.Dependencies{
		DB:            db.SQL,
		Tokens:        tokens,
		Store:         store,
		Mailer:        m,
		Scraper:       scraper.New(cfg.ScraperURL, cfg.ScraperTimeout),
		Metrics:       appMetrics,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		AuthRateLimit: cfg.AuthRateLimit,
		Categories:    cfg.Categories,
	})
	if err != nil {
		logger.Log.Fatal("failed to set up routes", zap.Error(err))
	}

	metricsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: appMetrics.Handler()}
	go func() {
		logger.Log.Info("metrics server listening", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// Start server
	go func() {
		logger.Log.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("metrics server shutdown failed", zap.Error(err))
	}
	logger.Log.Info("server stopped")
}

func newTokenRepository(ctx context.Context, cfg *config.Config, db *config.DB) (repositories.TokenRepository, func(), error) {
	if cfg.TokenStore != "redis" {
		return repositories.NewGormTokenRepository(db.SQL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Log.Info("connected to redis token store", zap.String("addr", cfg.RedisAddr))
	return repositories.NewRedisTokenRepository(client), func() { _ = client.Close() }, nil
}

func newImageStore(ctx context.Context, cfg *config.Config, db *config.DB) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "gridfs":
		return storage.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase))
	case "s3":
		return storage.NewS3Store(cfg.S3Region, cfg.S3Bucket)
	case "firebase":
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			return nil, err
		}
		return storage.NewFirebaseStore(app.Bucket, cfg.FirebaseStorageBucket), nil
	default:
		return storage.NewLocalStore(cfg.LocalStoragePath)
	}
}
