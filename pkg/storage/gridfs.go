package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps blobs in a MongoDB GridFS bucket. The ref doubles as the
// GridFS file id.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("post_images"))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Save(_ context.Context, contentType string, r io.Reader) (string, error) {
	ref := NewRef(contentType)
	if err := s.bucket.UploadFromStreamWithID(ref, ref, r); err != nil {
		return "", fmt.Errorf("upload to gridfs: %w", err)
	}
	return ref, nil
}

func (s *GridFSStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	stream, err := s.bucket.OpenDownloadStream(ref)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (s *GridFSStore) Delete(ctx context.Context, ref string) error {
	err := s.bucket.DeleteContext(ctx, ref)
	if err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return err
	}
	return nil
}

func (s *GridFSStore) URL(ref string) string {
	return MediaPrefix + ref
}
