package firebase

import (
	"context"
	"fmt"
	"os"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/anonto42/info-blog/backend/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// App holds the default storage bucket of the initialized Firebase app
type App struct {
	Bucket *gcs.BucketHandle
}

// InitFirebase initializes the Firebase application and resolves the storage bucket
func InitFirebase(ctx context.Context, credentialsPath, bucket string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	handle, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error resolving firebase storage bucket: %w", err)
	}

	logger.Log.Info("firebase storage initialized", zap.String("bucket", bucket))
	return &App{Bucket: handle}, nil
}
