package upload

import (
	"context"
	"fmt"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// GetResult returns the hosted URL and payload size for a completed session.
// Sessions that are still in flight yield ErrNotReady so callers can keep
// polling, failed and cancelled sessions yield their definitive error.
func (u *uploadService) GetResult(ctx context.Context, sessionID string) (string, int64, error) {
	sess, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return "", 0, err
	}

	switch sess.Status {
	case domain.SessionStatusCompleted:
		return sess.ResultURL, sess.FileSize, nil
	case domain.SessionStatusFailed:
		return "", 0, fmt.Errorf("%w: %s", domain.ErrUploadFailed, sess.Error)
	case domain.SessionStatusCancelled:
		return "", 0, domain.ErrUploadCancelled
	default:
		return "", 0, fmt.Errorf("%w: session is %s at %d%%", domain.ErrNotReady, sess.Status, int(sess.Progress*100))
	}
}
