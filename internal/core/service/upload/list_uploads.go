package upload

import (
	"context"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// ListUploads returns all known sessions newest first, or only the ones still
// in flight when activeOnly is set.
func (u *uploadService) ListUploads(ctx context.Context, activeOnly bool) ([]domain.UploadSession, error) {
	return u.store.List(ctx, activeOnly)
}
