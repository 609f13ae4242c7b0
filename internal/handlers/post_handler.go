package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/presenter"
	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/anonto42/info-blog/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const defaultDays = 10

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository     repositories.PostRepository
	categoryRepository repositories.CategoryRepository
	store              storage.Store
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, categoryRepo repositories.CategoryRepository, store storage.Store) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		categoryRepository: categoryRepo,
		store:              store,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/own", h.GetOwnPosts)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/sort", h.SortPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.PATCH("/posts/:id", h.PatchPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// postFilter reads the age window and paging shared by every listing.
// days defaults to 10; 0 means today, negative means no window.
func postFilter(c echo.Context) (models.PostFilter, error) {
	days := defaultDays
	if raw := c.QueryParam("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return models.PostFilter{}, echo.NewHTTPError(http.StatusBadRequest, "days must be an integer")
		}
		days = v
	}
	offset, limit := pagination(c)
	return models.PostFilter{Days: days, Offset: offset, Limit: limit}, nil
}

func (h *PostHandler) listPosts(c echo.Context, filter models.PostFilter) error {
	posts, err := h.postRepository.ListPosts(c.Request().Context(), filter)
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, presenter.Posts(presenterContext(c, h.store), posts))
}

// GetPosts lists posts inside the age window
func (h *PostHandler) GetPosts(c echo.Context) error {
	filter, err := postFilter(c)
	if err != nil {
		return err
	}
	return h.listPosts(c, filter)
}

// GetOwnPosts lists the caller's posts inside the age window
func (h *PostHandler) GetOwnPosts(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	filter, err := postFilter(c)
	if err != nil {
		return err
	}
	filter.AuthorID = userID
	return h.listPosts(c, filter)
}

// SearchPosts matches q against title or text, ignoring case
func (h *PostHandler) SearchPosts(c echo.Context) error {
	filter, err := postFilter(c)
	if err != nil {
		return err
	}
	filter.Query = c.QueryParam("q")
	return h.listPosts(c, filter)
}

// SortPosts orders by title for filter=A-Z or filter=Z-A
func (h *PostHandler) SortPosts(c echo.Context) error {
	filter, err := postFilter(c)
	if err != nil {
		return err
	}
	switch s := c.QueryParam("filter"); s {
	case "A-Z", "Z-A":
		filter.Sort = s
	}
	return h.listPosts(c, filter)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id", "Post not found")
	if err != nil {
		return err
	}
	return h.respondWithPost(c, http.StatusOK, id)
}

// CreatePost creates a new post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.checkCategory(c, req.CategoryID); err != nil {
		return err
	}

	files, err := uploadedImages(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	refs, err := saveImages(ctx, h.store, files)
	if err != nil {
		return err
	}

	post := &models.Post{
		Title:      req.Title,
		Text:       req.Text,
		AuthorID:   userID,
		CategoryID: req.CategoryID,
	}
	if err := h.postRepository.CreatePost(ctx, post, refs); err != nil {
		discardImages(ctx, h.store, refs)
		return storeError(err, "")
	}

	return h.respondWithPost(c, http.StatusCreated, post.ID)
}

// UpdatePost replaces every editable field. The post's images are replaced
// by the uploaded ones, so a request without files removes them all.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	post, err := h.authorPost(c)
	if err != nil {
		return err
	}

	var req models.PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.checkCategory(c, req.CategoryID); err != nil {
		return err
	}

	post.Title = req.Title
	post.Text = req.Text
	post.CategoryID = req.CategoryID
	return h.savePost(c, post, true)
}

// PatchPost updates the supplied fields. Images are replaced only when new
// files are uploaded.
func (h *PostHandler) PatchPost(c echo.Context) error {
	post, err := h.authorPost(c)
	if err != nil {
		return err
	}

	var req models.PatchPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Text != "" {
		post.Text = req.Text
	}
	if req.CategoryID != 0 {
		if err := h.checkCategory(c, req.CategoryID); err != nil {
			return err
		}
		post.CategoryID = req.CategoryID
	}
	return h.savePost(c, post, false)
}

// DeletePost deletes the post with its images and interactions
func (h *PostHandler) DeletePost(c echo.Context) error {
	post, err := h.authorPost(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	removed, err := h.postRepository.DeletePost(ctx, post.ID)
	if err != nil {
		return storeError(err, "Post not found")
	}
	discardImages(ctx, h.store, removed)

	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) savePost(c echo.Context, post *models.Post, alwaysReplace bool) error {
	files, err := uploadedImages(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	refs, err := saveImages(ctx, h.store, files)
	if err != nil {
		return err
	}

	removed, err := h.postRepository.UpdatePost(ctx, post, refs, alwaysReplace || len(refs) > 0)
	if err != nil {
		discardImages(ctx, h.store, refs)
		return storeError(err, "Post not found")
	}
	discardImages(ctx, h.store, removed)

	return h.respondWithPost(c, http.StatusOK, post.ID)
}

// authorPost loads the post named by :id and checks that the caller wrote it
func (h *PostHandler) authorPost(c echo.Context) (*models.Post, error) {
	userID, err := requireUserID(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id", "Post not found")
	if err != nil {
		return nil, err
	}
	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return nil, storeError(err, "Post not found")
	}
	if post.AuthorID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action")
	}
	return post, nil
}

func (h *PostHandler) checkCategory(c echo.Context, id uint) error {
	_, err := h.categoryRepository.GetCategoryByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}
	if err != nil {
		return storeError(err, "")
	}
	return nil
}

func (h *PostHandler) respondWithPost(c echo.Context, status int, id uint) error {
	post, err := h.postRepository.LoadPost(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "Post not found")
	}
	return c.JSON(status, presenter.Post(presenterContext(c, h.store), post))
}
