package handlers

import (
	"net/http"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
)

type RatingHandler struct {
	ratingRepository repositories.RatingRepository
	postRepository   repositories.PostRepository
	metrics          *metrics.Metrics
}

func NewRatingHandler(ratingRepo repositories.RatingRepository, postRepo repositories.PostRepository, m *metrics.Metrics) *RatingHandler {
	return &RatingHandler{
		ratingRepository: ratingRepo,
		postRepository:   postRepo,
		metrics:          m,
	}
}

func (h *RatingHandler) RegisterRatingRoutes(g *echo.Group) {
	g.GET("/ratings", h.ListRatings)
	g.POST("/ratings", h.RatePost)
}

// RatePost stores the caller's rating, replacing an earlier one. Values
// outside 0..5 are rejected by validation before the store is touched.
func (h *RatingHandler) RatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.RatingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.postRepository.GetPostByID(ctx, req.PostID); err != nil {
		return storeError(err, "Post not found")
	}

	rating, err := h.ratingRepository.RatePost(ctx, userID, req.PostID, *req.Rating)
	if err != nil {
		return storeError(err, "")
	}
	h.metrics.Interaction("rating")

	return c.JSON(http.StatusCreated, rating)
}

func (h *RatingHandler) ListRatings(c echo.Context) error {
	postID, err := queryUint(c, "post")
	if err != nil {
		return err
	}
	ratings, err := h.ratingRepository.ListRatings(c.Request().Context(), postID)
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, ratings)
}
