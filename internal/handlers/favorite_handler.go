package handlers

import (
	"net/http"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// FavoriteHandler handles favorite HTTP requests
type FavoriteHandler struct {
	favoriteRepository repositories.FavoriteRepository
	postRepository     repositories.PostRepository
	metrics            *metrics.Metrics
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favoriteRepo repositories.FavoriteRepository, postRepo repositories.PostRepository, m *metrics.Metrics) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteRepository: favoriteRepo,
		postRepository:     postRepo,
		metrics:            m,
	}
}

// RegisterFavoriteRoutes registers favorite routes
func (h *FavoriteHandler) RegisterFavoriteRoutes(g *echo.Group) {
	g.GET("/favorites", h.ListFavorites)
	g.POST("/favorites", h.ToggleFavorite)
}

// ToggleFavorite favorites the post on first call and flips the flag afterwards
func (h *FavoriteHandler) ToggleFavorite(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.InteractionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.postRepository.GetPostByID(ctx, req.PostID); err != nil {
		return storeError(err, "Post not found")
	}

	favorite, err := h.favoriteRepository.ToggleFavorite(ctx, userID, req.PostID)
	if err != nil {
		return storeError(err, "")
	}
	h.metrics.Interaction("favorite")

	return c.JSON(http.StatusCreated, favorite)
}

// ListFavorites lists the caller's favorites
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	favorites, err := h.favoriteRepository.ListFavoritesByUser(c.Request().Context(), userID)
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, favorites)
}
