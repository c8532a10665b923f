package port

import (
	"context"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// DownloadService is an interface to fetch remote files onto local disk
type DownloadService interface {
	// DownloadFile fetches rawURL into dir under filename. Empty filename
	// derives a name from the URL, empty dir falls back to the configured
	// download directory.
	DownloadFile(ctx context.Context, rawURL, filename, dir string) (*domain.DownloadResult, error)
}
