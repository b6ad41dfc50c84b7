package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"agencydesk/config"
	"agencydesk/pkg/circuitbreaker"
)

// Uploader pushes inbound attachments to S3-compatible object storage.
// Only the resulting URL is persisted; raw bytes never reach the database.
type Uploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
	breaker   *circuitbreaker.CircuitBreaker
	timeout   time.Duration
	logger    *zap.Logger
}

func NewUploader(cfg config.StorageConfig, logger *zap.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init storage client: %w", err)
	}

	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
		breaker:   circuitbreaker.New(circuitbreaker.DefaultConfig()),
		timeout:   10 * time.Second,
		logger:    logger,
	}, nil
}

// Upload stores one attachment under a random object key and returns its
// public URL.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	objectName := fmt.Sprintf("attachments/%s%s", uuid.NewString(), path.Ext(filename))

	err := u.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()

		_, err := u.client.PutObject(ctx, u.bucket, objectName,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType},
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}

	u.logger.Debug("Attachment uploaded",
		zap.String("object", objectName),
		zap.Int("size", len(data)),
	)
	return fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, objectName), nil
}
