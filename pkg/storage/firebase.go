package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// FirebaseStore keeps blobs in the Firebase project's Cloud Storage bucket.
type FirebaseStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewFirebaseStore(bucket *gcs.BucketHandle, bucketName string) *FirebaseStore {
	return &FirebaseStore{bucket: bucket, bucketName: bucketName}
}

func (s *FirebaseStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	ref := NewRef(contentType)
	w := s.bucket.Object(ref).NewWriter(ctx)
	w.ContentType = ContentType(ref)

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload to firebase storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload to firebase storage: %w", err)
	}
	return ref, nil
}

func (s *FirebaseStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	rd, err := s.bucket.Object(ref).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rd, nil
}

func (s *FirebaseStore) Delete(ctx context.Context, ref string) error {
	err := s.bucket.Object(ref).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (s *FirebaseStore) URL(ref string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, ref)
}
