package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// Cleanup removes finished session records whose last update is older than
// maxAgeHours and returns how many were removed. A zero age purges every
// finished session. Active sessions are never touched.
func (u *uploadService) Cleanup(ctx context.Context, maxAgeHours float64) (int, error) {
	if maxAgeHours < 0 {
		return 0, fmt.Errorf("%w: max age must not be negative, got %v", domain.ErrValidation, maxAgeHours)
	}

	maxAge := time.Duration(maxAgeHours * float64(time.Hour))

	removed, err := u.store.PurgeOlderThan(ctx, maxAge)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		u.logger.Info("purged finished upload sessions", "removed", removed, "max_age_hours", maxAgeHours)
	}

	return removed, nil
}
