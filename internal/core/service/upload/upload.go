package upload

import (
	"context"
	"log/slog"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

type uploadService struct {
	store     port.SessionStore
	launcher  port.WorkerLauncher
	events    port.EventPublisher
	logger    *slog.Logger
	uploadCfg config.UploadConfig
}

// NewUploadService creates a new upload orchestration service. events may be
// nil when no broker is configured.
func NewUploadService(store port.SessionStore, launcher port.WorkerLauncher, events port.EventPublisher, logger *slog.Logger, cfg config.UploadConfig) port.UploadService {
	return &uploadService{
		store:     store,
		launcher:  launcher,
		events:    events,
		logger:    logger,
		uploadCfg: cfg,
	}
}

// publish emits a transfer event for the session. Publishing is advisory, a
// broker failure never fails the operation that triggered it.
func (u *uploadService) publish(ctx context.Context, sess domain.UploadSession) {
	if u.events == nil {
		return
	}
	if err := u.events.PublishTransferEvent(ctx, domain.NewTransferEvent(sess)); err != nil {
		u.logger.Warn("failed to publish transfer event", "session_id", sess.ID, "status", string(sess.Status), "error", err)
	}
}
