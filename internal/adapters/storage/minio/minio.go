package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio, useful for keeping payloads on
// self-hosted storage instead of the fal CDN
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

var _ port.ObjectStorage = (*Adapter)(nil)

// Upload stores the payload under a unique key and returns a long-lived
// presigned download URL for it
func (a *Adapter) Upload(ctx context.Context, payload io.Reader, size int64, filename, contentType string) (string, error) {
	fileKey := fmt.Sprintf("uploads/%s/%s", uuid.New().String(), filename)

	_, err := a.client.PutObject(ctx, a.config.BucketName, fileKey, payload, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", classifyMinioError("store payload", err)
	}

	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, fileKey, a.config.DownloadSignedURLDuration, nil)
	if err != nil {
		return "", classifyMinioError("sign download url", err)
	}

	a.logger.Info("payload stored",
		slog.String("fileKey", fileKey),
		slog.String("bucket", a.config.BucketName),
		slog.Int64("size", size))

	return presignedURL.String(), nil
}

// classifyMinioError keeps the same retry semantics as the fal backend:
// server-side trouble and throttling retry, everything else fails hard.
func classifyMinioError(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500,
		resp.StatusCode == 0: // no response at all, treat as network trouble
		return domain.NewTransientTransferError(op, err)
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return domain.NewPermanentTransferError(op, fmt.Errorf("%w: %v", domain.ErrFileTooLarge, err))
	}
	return domain.NewPermanentTransferError(op, err)
}
