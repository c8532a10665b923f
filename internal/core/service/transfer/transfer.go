package transfer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

// Worker drives a single upload session to a terminal state. It runs inside
// the detached worker process, owns every non-terminal write to its session
// record, and survives transient transfer failures by retrying with
// exponential backoff.
type Worker struct {
	store      port.SessionStore
	storage    port.ObjectStorage
	events     port.EventPublisher
	logger     *slog.Logger
	uploadCfg  config.UploadConfig
	httpClient *http.Client

	// Sleep waits between retry attempts. Tests replace it to avoid real
	// waiting.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewWorker creates a transfer worker. events may be nil when no broker is
// configured.
func NewWorker(store port.SessionStore, storage port.ObjectStorage, events port.EventPublisher, logger *slog.Logger, cfg config.UploadConfig) *Worker {
	return &Worker{
		store:      store,
		storage:    storage,
		events:     events,
		logger:     logger,
		uploadCfg:  cfg,
		httpClient: &http.Client{},
		Sleep:      sleepContext,
	}
}

func (w *Worker) maxAttempts() int {
	if w.uploadCfg.MaxAttempts > 0 {
		return w.uploadCfg.MaxAttempts
	}
	return 1
}

func (w *Worker) publish(ctx context.Context, sess domain.UploadSession) {
	if w.events == nil {
		return
	}
	if err := w.events.PublishTransferEvent(ctx, domain.NewTransferEvent(sess)); err != nil {
		w.logger.Warn("failed to publish transfer event", "session_id", sess.ID, "status", string(sess.Status), "error", err)
	}
}

// setProgress bumps the stored progress, never lowering it. The returned
// error carries domain.ErrSessionFinished when the session was cancelled
// underneath the worker, which aborts the transfer in flight.
func (w *Worker) setProgress(ctx context.Context, sessionID string, progress float64) error {
	_, err := w.store.Update(ctx, sessionID, func(s *domain.UploadSession) error {
		if progress > s.Progress {
			s.Progress = progress
		}
		return nil
	})
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
