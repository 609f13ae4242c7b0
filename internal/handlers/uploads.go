package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/anonto42/info-blog/backend/pkg/logger"
	"github.com/anonto42/info-blog/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const imageField = "image"

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// uploadedImages returns the "image" file parts of a multipart request, or
// nil for other content types.
func uploadedImages(c echo.Context) ([]*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	return form.File[imageField], nil
}

// saveImages stores every file and returns the refs in upload order. On
// failure the blobs stored so far are removed.
func saveImages(ctx context.Context, store storage.Store, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, fh := range files {
		ref, err := saveImage(ctx, store, fh)
		if err != nil {
			discardImages(ctx, store, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func saveImage(ctx context.Context, store storage.Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Upload a valid image")
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Upload a valid image")
	}
	contentType := http.DetectContentType(head[:n])
	if _, ok := storage.ImageExtension(contentType); n == 0 || !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	ref, err := store.Save(ctx, contentType, io.MultiReader(bytes.NewReader(head[:n]), f))
	if err != nil {
		logger.Log.Error("image store failed", zap.String("file", fh.Filename), zap.Error(err))
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
	}
	return ref, nil
}

// discardImages removes blobs that no row references any more. Failures are
// only logged.
func discardImages(ctx context.Context, store storage.Store, refs []string) {
	for _, ref := range refs {
		if err := store.Delete(ctx, ref); err != nil {
			logger.Log.Warn("failed to delete image blob", zap.String("ref", ref), zap.Error(err))
		}
	}
}
