package router

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/info-blog/backend/internal/handlers"
	"github.com/anonto42/info-blog/backend/internal/middleware"
	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/pkg/config"
	"github.com/anonto42/info-blog/backend/pkg/logger"
	"github.com/anonto42/info-blog/backend/pkg/mailer"
	"github.com/anonto42/info-blog/backend/pkg/metrics"
	"github.com/anonto42/info-blog/backend/pkg/storage"
	"github.com/anonto42/info-blog/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators built by main and injected into the
// handlers.
type Dependencies struct {
	DB            *gorm.DB
	Tokens        repositories.TokenRepository
	Store         storage.Store
	Mailer        mailer.Mailer
	Scraper       handlers.HeadlineSource
	Metrics       *metrics.Metrics
	JWTSecret     string
	TokenTTL      time.Duration
	AuthRateLimit float64
	Categories    []string
}

// SetupRoutes migrates the schema, seeds categories and configures all
// application routes
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	if err := deps.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate models: %w", err)
	}
	logger.Log.Info("auto-migrations completed for all models")

	categoryRepo := repositories.NewGormCategoryRepository(deps.DB)
	if len(deps.Categories) > 0 {
		if err := categoryRepo.EnsureCategories(context.Background(), deps.Categories); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		logger.Log.Info("categories seeded", zap.Strings("categories", deps.Categories))
	}

	e.Validator = validators.NewValidator()

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(deps.DB)
	postRepo := repositories.NewGormPostRepository(deps.DB)
	imageRepo := repositories.NewGormImageRepository(deps.DB)
	likeRepo := repositories.NewGormLikeRepository(deps.DB)
	favoriteRepo := repositories.NewGormFavoriteRepository(deps.DB)
	ratingRepo := repositories.NewGormRatingRepository(deps.DB)
	commentRepo := repositories.NewGormCommentRepository(deps.DB)

	auth := middleware.TokenAuthMiddleware(deps.JWTSecret, deps.Tokens)

	// Health check and media are always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.DB).HealthCheck)
	imageHandler := handlers.NewImageHandler(imageRepo, postRepo, deps.Store)
	imageHandler.RegisterMediaRoutes(e)

	v1 := e.Group("/api/v1")

	// --- Account routes, rate limited per client ---
	accountGroup := v1.Group("/account", config.AuthRateLimiter(deps.AuthRateLimit))
	handlers.NewAuthHandler(userRepo, deps.Tokens, deps.Mailer, deps.JWTSecret, deps.TokenTTL).
		RegisterAuthRoutes(accountGroup, auth)
	logger.Log.Info("account routes configured")

	// --- Public routes ---
	handlers.NewCategoryHandler(categoryRepo).RegisterCategoryRoutes(v1)
	handlers.NewScraperHandler(deps.Scraper).RegisterScraperRoutes(v1)

	// --- Protected routes (require a bearer token) ---
	api := v1.Group("", auth)

	handlers.NewPostHandler(postRepo, categoryRepo, deps.Store).RegisterPostRoutes(api)
	imageHandler.RegisterImageRoutes(api)
	handlers.NewLikeHandler(likeRepo, postRepo, deps.Metrics).RegisterLikeRoutes(api)
	handlers.NewFavoriteHandler(favoriteRepo, postRepo, deps.Metrics).RegisterFavoriteRoutes(api)
	handlers.NewRatingHandler(ratingRepo, postRepo, deps.Metrics).RegisterRatingRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo).RegisterCommentRoutes(api)

	logger.Log.Info("all routes configured")
	return nil
}
