// Package storage stores album cover images in a MinIO bucket and hands
// back publicly addressable URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/abimdanu/openmusic-api/config"
	"github.com/abimdanu/openmusic-api/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// CoverStorage uploads album covers to an object store bucket.
type CoverStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewCoverStorage creates the MinIO client and ensures the bucket exists.
func NewCoverStorage(cfg *config.Config) (*CoverStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created cover bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &CoverStorage{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: cfg.MinioPublicURL,
	}, nil
}

// UploadCover stores one cover image for the album and returns its
// public URL. Re-uploading for the same album overwrites the object.
func (s *CoverStorage) UploadCover(ctx context.Context, albumID string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("covers/%s", albumID)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cover for album %s: %w", albumID, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}
