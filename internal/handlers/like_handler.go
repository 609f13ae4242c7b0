package handlers

import (
	"net/http"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	metrics        *metrics.Metrics
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, m *metrics.Metrics) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		metrics:        m,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.GET("/likes", h.ListLikes)
	g.POST("/likes", h.ToggleLike)
}

// ToggleLike likes the post on first call and flips the flag afterwards
func (h *LikeHandler) ToggleLike(c echo.Context) error {
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

	like, err := h.likeRepository.ToggleLike(ctx, userID, req.PostID)
	if err != nil {
		return storeError(err, "")
	}
	h.metrics.Interaction("like")

	return c.JSON(http.StatusCreated, like)
}

// ListLikes lists every like row, optionally for one post
func (h *LikeHandler) ListLikes(c echo.Context) error {
	postID, err := queryUint(c, "post")
	if err != nil {
		return err
	}
	likes, err := h.likeRepository.ListLikes(c.Request().Context(), postID)
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, likes)
}
