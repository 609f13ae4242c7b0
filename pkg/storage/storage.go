// Package storage keeps uploaded post images. A Store hands out an opaque
// ref on Save; the ref is what post_images rows hold.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("image not found")

type Store interface {
	// Save stores r, whose sniffed type is contentType, and returns its ref.
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
	// URL returns either an absolute locator or a path relative to the
	// service root.
	URL(ref string) string
}

// MediaPrefix is the route that serves blobs of stores without public URLs.
const MediaPrefix = "/media/"

const octetStream = "application/octet-stream"

// imageExtensions lists the image types http.DetectContentType reports.
var imageExtensions = map[string]string{
	"image/bmp":    ".bmp",
	"image/gif":    ".gif",
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/webp":   ".webp",
	"image/x-icon": ".ico",
}

// ImageExtension returns the ref extension for an accepted image type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

// NewRef returns a unique flat ref. The extension comes from contentType,
// never from the client's file name; unknown types get none.
func NewRef(contentType string) string {
	ext, _ := ImageExtension(contentType)
	return uuid.NewString() + ext
}

// ContentType maps a ref back to the image type it was saved as. Refs
// without a known image extension are served as application/octet-stream.
func ContentType(ref string) string {
	ext := strings.ToLower(filepath.Ext(ref))
	for ct, e := range imageExtensions {
		if e == ext {
			return ct
		}
	}
	return octetStream
}

// ValidRef rejects refs that could escape a flat namespace.
func ValidRef(ref string) bool {
	if ref == "" || ref == "." || ref == ".." {
		return false
	}
	return !strings.ContainsAny(ref, `/\`)
}
