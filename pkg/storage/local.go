package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anonto42/info-blog/backend/pkg/logger"
	"go.uber.org/zap"
)

// LocalStore writes blobs below a directory on disk.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) path(ref string) (string, error) {
	if !ValidRef(ref) {
		return "", ErrNotFound
	}
	return filepath.Join(s.basePath, ref), nil
}

func (s *LocalStore) Save(_ context.Context, contentType string, r io.Reader) (string, error) {
	ref := NewRef(contentType)
	full, err := s.path(ref)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write file: %w", err)
	}

	logger.Log.Debug("image stored", zap.String("path", full))
	return ref, nil
}

func (s *LocalStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	full, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	full, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(ref string) string {
	return MediaPrefix + ref
}
