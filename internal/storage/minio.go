// Package storage constructs the object-store client holding client
// attachments (photos, license files).
package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/30secgamer/drivingbackend/internal/config"
)

// NewMinioClient connects to the S3-compatible object store and ensures the
// configured bucket exists.
func NewMinioClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*minio.Client, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.StorageBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.StorageBucket, err)
		}
	}

	log.Info().
		Str("endpoint", cfg.StorageEndpoint).
		Str("bucket", cfg.StorageBucket).
		Msg("Object store connected")

	return client, nil
}
