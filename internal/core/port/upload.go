package port

import (
	"context"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// UploadService is an interface to define upload session orchestration
type UploadService interface {
	StartUpload(ctx context.Context, path string) (*domain.UploadSession, int, error)
	StartUploadFromURL(ctx context.Context, rawURL string) (*domain.UploadSession, int, error)
	CheckStatus(ctx context.Context, sessionID string) (*domain.UploadSession, error)
	GetResult(ctx context.Context, sessionID string) (string, int64, error)
	Cancel(ctx context.Context, sessionID string) (domain.CancelOutcome, error)
	ListUploads(ctx context.Context, activeOnly bool) ([]domain.UploadSession, error)
	Cleanup(ctx context.Context, maxAgeHours float64) (int, error)
}
