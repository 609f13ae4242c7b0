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

// ImageHandler attaches images to posts and serves stored blobs
type ImageHandler struct {
	imageRepository repositories.ImageRepository
	postRepository  repositories.PostRepository
	store           storage.Store
}

func NewImageHandler(imageRepo repositories.ImageRepository, postRepo repositories.PostRepository, store storage.Store) *ImageHandler {
	return &ImageHandler{
		imageRepository: imageRepo,
		postRepository:  postRepo,
		store:           store,
	}
}

func (h *ImageHandler) RegisterImageRoutes(g *echo.Group) {
	g.GET("/add-image", h.ListImages)
	g.POST("/add-image", h.AddImage)
}

// RegisterMediaRoutes mounts the blob route, outside authentication.
func (h *ImageHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET(storage.MediaPrefix+":ref", h.ServeMedia)
}

func (h *ImageHandler) ListImages(c echo.Context) error {
	images, err := h.imageRepository.ListImages(c.Request().Context())
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, presenter.ImageRows(presenterContext(c, h.store), images))
}

// AddImage attaches one uploaded image to a post of the caller
func (h *ImageHandler) AddImage(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if !isMultipart(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "Expected a multipart form with post and image")
	}

	postID, err := strconv.ParseUint(c.FormValue("post"), 10, 32)
	if err != nil || postID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "post: this field is required")
	}
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, uint(postID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post")
	}
	if err != nil {
		return storeError(err, "")
	}
	if post.AuthorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action")
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image: this field is required")
	}
	ref, err := saveImage(ctx, h.store, fh)
	if err != nil {
		return err
	}

	image := &models.PostImage{PostID: post.ID, Image: ref}
	if err := h.imageRepository.AddImage(ctx, image); err != nil {
		discardImages(ctx, h.store, []string{ref})
		return storeError(err, "")
	}

	pc := presenterContext(c, h.store)
	return c.JSON(http.StatusCreated, presenter.ImageRowView{ID: image.ID, Post: image.PostID, Image: pc.ImageURL(image.Image)})
}

// ServeMedia streams a stored blob. The content type comes from the ref,
// which only ever carries an image extension chosen at upload.
func (h *ImageHandler) ServeMedia(c echo.Context) error {
	ref := c.Param("ref")
	rc, err := h.store.Open(c.Request().Context(), ref)
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Image not found")
	}
	if err != nil {
		return storeError(err, "")
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderXContentTypeOptions, "nosniff")
	return c.Stream(http.StatusOK, storage.ContentType(ref), rc)
}
