package upload

import (
	"context"
	"errors"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// CheckStatus returns the current snapshot of a session. When the record
// claims active work but the worker process behind it is gone, the session is
// marked failed so callers are not left polling a transfer nobody is running.
func (u *uploadService) CheckStatus(ctx context.Context, sessionID string) (*domain.UploadSession, error) {
	sess, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.Status.Active() || sess.WorkerPID == 0 || u.launcher.Alive(sess.WorkerPID) {
		return sess, nil
	}

	// Reload before judging the worker dead, it may have written its final
	// state between the Get and the liveness probe.
	sess, err = u.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Status.Active() {
		return sess, nil
	}

	u.logger.Warn("upload worker is gone, marking session failed", "session_id", sessionID, "worker_pid", sess.WorkerPID)

	marked, err := u.store.Update(ctx, sessionID, func(s *domain.UploadSession) error {
		s.Status = domain.SessionStatusFailed
		s.Error = "upload worker exited unexpectedly"
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionFinished) {
			return u.store.Get(ctx, sessionID)
		}
		return nil, err
	}

	u.publish(ctx, *marked)

	return marked, nil
}
