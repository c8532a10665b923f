package upload

import (
	"context"
	"errors"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// Cancel stops an in-flight session: the worker process is terminated and the
// record is moved to cancelled. Cancelling a finished session is not an
// error, it reports already_finished and changes nothing.
func (u *uploadService) Cancel(ctx context.Context, sessionID string) (domain.CancelOutcome, error) {
	sess, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if sess.Status.Terminal() {
		return domain.CancelOutcomeAlreadyFinished, nil
	}

	if sess.WorkerPID > 0 {
		if err := u.launcher.Terminate(sess.WorkerPID); err != nil {
			u.logger.Warn("failed to stop upload worker", "session_id", sessionID, "worker_pid", sess.WorkerPID, "error", err)
		}
	}

	cancelled, err := u.store.Update(ctx, sessionID, func(s *domain.UploadSession) error {
		s.Status = domain.SessionStatusCancelled
		s.Error = "upload cancelled by caller"
		return nil
	})
	if err != nil {
		// The worker won the race and persisted a terminal state first. If
		// that state is cancelled the caller still got what they asked for.
		if errors.Is(err, domain.ErrSessionFinished) {
			current, getErr := u.store.Get(ctx, sessionID)
			if getErr == nil && current.Status == domain.SessionStatusCancelled {
				return domain.CancelOutcomeCancelled, nil
			}
			return domain.CancelOutcomeAlreadyFinished, nil
		}
		return "", err
	}

	u.logger.Info("upload session cancelled", "session_id", sessionID)
	u.publish(ctx, *cancelled)

	return domain.CancelOutcomeCancelled, nil
}
