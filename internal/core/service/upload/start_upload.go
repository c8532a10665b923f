package upload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// StartUpload registers a local file for background transfer and launches a
// detached worker for it. The returned estimate is in seconds. Size limits
// are enforced by the worker so an oversized file still produces a session
// record carrying the failure.
func (u *uploadService) StartUpload(ctx context.Context, path string) (*domain.UploadSession, int, error) {
	if strings.TrimSpace(path) == "" {
		return nil, 0, fmt.Errorf("%w: file path must not be empty", domain.ErrValidation)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid file path %q: %v", domain.ErrValidation, path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: file not found: %s", domain.ErrFileNotFound, abs)
		}
		return nil, 0, fmt.Errorf("%w: cannot stat %s: %v", domain.ErrValidation, abs, err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s is a directory, not a file", domain.ErrValidation, abs)
	}

	sess := domain.NewUploadSession(domain.SourceKindFile, abs)
	sess.FileSize = info.Size()

	return u.begin(ctx, sess)
}

// StartUploadFromURL registers a remote URL for background transfer. The
// worker downloads the payload to a spool file before uploading it, so no
// size estimate better than the floor is available up front.
func (u *uploadService) StartUploadFromURL(ctx context.Context, rawURL string) (*domain.UploadSession, int, error) {
	if _, err := domain.ParseSourceURL(rawURL); err != nil {
		return nil, 0, err
	}

	sess := domain.NewUploadSession(domain.SourceKindURL, rawURL)

	return u.begin(ctx, sess)
}

func (u *uploadService) begin(ctx context.Context, sess domain.UploadSession) (*domain.UploadSession, int, error) {
	if err := u.store.Create(ctx, sess); err != nil {
		return nil, 0, err
	}

	pid, err := u.launcher.Launch(ctx, sess.ID)
	if err != nil {
		u.logger.Error("failed to launch upload worker", "session_id", sess.ID, "error", err)
		failed, markErr := u.store.Update(ctx, sess.ID, func(s *domain.UploadSession) error {
			s.Status = domain.SessionStatusFailed
			s.Error = fmt.Sprintf("failed to start upload worker: %v", err)
			return nil
		})
		if markErr != nil {
			u.logger.Error("failed to mark session failed after launch error", "session_id", sess.ID, "error", markErr)
		} else {
			u.publish(ctx, *failed)
		}
		return nil, 0, fmt.Errorf("%w: cannot start upload worker: %v", domain.ErrUploadFailed, err)
	}

	// Record the pid for liveness probes and cancellation. The worker may
	// already have finished the transfer, in which case the record is
	// terminal and the pid no longer matters.
	updated, err := u.store.Update(ctx, sess.ID, func(s *domain.UploadSession) error {
		s.WorkerPID = pid
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrSessionFinished) {
			u.logger.Warn("failed to record worker pid", "session_id", sess.ID, "pid", pid, "error", err)
		}
		updated, err = u.store.Get(ctx, sess.ID)
		if err != nil {
			updated = &sess
		}
	}

	u.logger.Info("upload session started", "session_id", sess.ID, "source_kind", string(sess.SourceKind), "worker_pid", pid)

	return updated, domain.EstimateUploadSeconds(sess.FileSize), nil
}
