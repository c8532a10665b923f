package port

import (
	"context"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// SessionStore is an interface to persist upload session records. Implementations
// must apply Update atomically and refuse writes to sessions in a terminal state.
type SessionStore interface {
	// Create persists a brand new session record.
	Create(ctx context.Context, session domain.UploadSession) error
	// Get loads one session by id.
	Get(ctx context.Context, id string) (*domain.UploadSession, error)
	// Update applies mutate to the current record under the store's write lock
	// and persists the result. It returns domain.ErrSessionFinished when the
	// record is already terminal, and rejects illegal status transitions.
	Update(ctx context.Context, id string, mutate func(*domain.UploadSession) error) (*domain.UploadSession, error)
	// List returns sessions newest first, optionally only active ones.
	List(ctx context.Context, activeOnly bool) ([]domain.UploadSession, error)
	// Delete removes one session record.
	Delete(ctx context.Context, id string) error
	// PurgeOlderThan removes terminal sessions whose last update is older than
	// maxAge, returning how many records were removed.
	PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int, error)
}
