package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/storage/fal"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/storage/minio"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

// New builds the configured object storage backend
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ObjectStorage, error) {
	switch cfg.Upload.StorageBackend {
	case "fal":
		return fal.NewAdapter(cfg.Fal, logger), nil
	case "minio":
		return minio.NewAdapter(ctx, cfg.Minio, logger)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Upload.StorageBackend)
}
