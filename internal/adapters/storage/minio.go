package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"eventdesk/internal/domain"
)

// Config holds connection settings for the S3-compatible object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type minioStorage struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioStorage connects to the object store and ensures the bucket exists.
func NewMinioStorage(cfg Config, logger *slog.Logger) (domain.FileStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &minioStorage{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Upload stores data under a fresh object key (keeping the original
// extension) and returns its public URL.
func (s *minioStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	ext := filepath.Ext(fileName)
	objectKey := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		s.logger.Error("object upload failed", "bucket", s.bucket, "key", objectKey, "err", err)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}
	s.logger.Info("object uploaded", "bucket", info.Bucket, "key", info.Key, "size", info.Size)

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey), nil
}
