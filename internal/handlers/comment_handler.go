package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/presenter"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comment", h.ListComments)
	g.POST("/comment", h.CreateComment)
	g.GET("/comment/:id", h.GetComment)
	g.PUT("/comment/:id", h.UpdateComment)
	g.PATCH("/comment/:id", h.UpdateComment)
	g.DELETE("/comment/:id", h.DeleteComment)
}

// ListComments returns root comments with their replies nested, optionally
// for one post.
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID, err := queryUint(c, "post")
	if err != nil {
		return err
	}
	comments, err := h.commentRepository.ListComments(c.Request().Context(), postID)
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, presenter.CommentTree(comments))
}

// CreateComment creates a comment, or a reply when parent is set. The
// parent must belong to the same post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.postRepository.GetPostByID(ctx, req.PostID); err != nil {
		return storeError(err, "Post not found")
	}
	if req.ParentID != nil {
		parent, err := h.commentRepository.GetCommentByID(ctx, *req.ParentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment not found")
		}
		if err != nil {
			return storeError(err, "")
		}
		if parent.PostID != req.PostID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to another post")
		}
	}

	comment := &models.Comment{
		PostID:   req.PostID,
		UserID:   userID,
		Text:     req.Text,
		ParentID: req.ParentID,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return storeError(err, "")
	}

	return h.respondWithComment(c, http.StatusCreated, comment)
}

// GetComment returns one comment with its replies
func (h *CommentHandler) GetComment(c echo.Context) error {
	id, err := parseIDParam(c, "id", "Comment not found")
	if err != nil {
		return err
	}
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "Comment not found")
	}
	return h.respondWithComment(c, http.StatusOK, comment)
}

// UpdateComment changes the text of a comment of the caller
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	comment, err := h.authorComment(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.commentRepository.UpdateCommentText(c.Request().Context(), comment.ID, req.Text); err != nil {
		return storeError(err, "Comment not found")
	}
	comment.Text = req.Text

	return h.respondWithComment(c, http.StatusOK, comment)
}

// DeleteComment deletes a comment of the caller together with all replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment, err := h.authorComment(c)
	if err != nil {
		return err
	}

	if _, err := h.commentRepository.DeleteCommentTree(c.Request().Context(), comment.ID); err != nil {
		return storeError(err, "Comment not found")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) authorComment(c echo.Context) (*models.Comment, error) {
	userID, err := requireUserID(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id", "Comment not found")
	if err != nil {
		return nil, err
	}
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return nil, storeError(err, "Comment not found")
	}

	// Ensure the caller is the owner
	if comment.UserID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action")
	}
	return comment, nil
}

func (h *CommentHandler) respondWithComment(c echo.Context, status int, comment *models.Comment) error {
	comments, err := h.commentRepository.ListComments(c.Request().Context(), comment.PostID)
	if err != nil {
		return storeError(err, "")
	}
	view := presenter.CommentSubtree(comments, comment.ID)
	if view == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	return c.JSON(status, view)
}
