package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// errInterrupted marks a transfer cut short by process shutdown rather than
// by a transfer failure.
var errInterrupted = errors.New("transfer interrupted")

// Run executes the whole transfer for one session and persists its terminal
// state. A nil return means the outcome was recorded, not that the upload
// succeeded; a non-nil return means the session store itself is broken.
func (w *Worker) Run(ctx context.Context, sessionID string) error {
	sess, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status.Terminal() {
		w.logger.Info("session already finished, nothing to do", "session_id", sessionID, "status", string(sess.Status))
		return nil
	}

	// Claim the session. Recording our own pid covers workers started by
	// hand as well as a lost pid write on the orchestrator side.
	pid := os.Getpid()
	sess, err = w.store.Update(ctx, sessionID, func(s *domain.UploadSession) error {
		s.Status = domain.SessionStatusUploading
		s.Progress = 0.1
		s.WorkerPID = pid
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionFinished) {
			return nil
		}
		return err
	}
	w.logger.Info("transfer started", "session_id", sessionID, "source_kind", string(sess.SourceKind), "pid", pid)
	w.publish(ctx, *sess)

	url, size, err := w.transfer(ctx, sess)
	switch {
	case err == nil:
		return w.finish(ctx, sessionID, url, size)
	case errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled):
		return w.markCancelled(ctx, sessionID)
	case errors.Is(err, domain.ErrSessionFinished):
		// Cancelled through the store while we were transferring.
		return nil
	default:
		return w.markFailed(ctx, sessionID, err)
	}
}

// transfer prepares the payload and uploads it, retrying transient failures
// with exponential backoff. URL payloads are downloaded once and reused
// across attempts.
func (w *Worker) transfer(ctx context.Context, sess *domain.UploadSession) (string, int64, error) {
	payload := payloadState{}
	defer payload.discard()

	progressFloor := 0.1
	if sess.SourceKind == domain.SourceKindURL {
		// The first half of the band belongs to the source download.
		progressFloor = 0.5
	}

	maxAttempts := w.maxAttempts()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", 0, errInterrupted
		}

		err := w.preparePayload(ctx, sess, &payload)
		if err == nil {
			var url string
			url, err = w.uploadOnce(ctx, sess.ID, &payload, progressFloor)
			if err == nil {
				return url, payload.size, nil
			}
		}
		if errors.Is(err, domain.ErrSessionFinished) || errors.Is(err, context.Canceled) {
			return "", 0, err
		}

		lastErr = err
		if !domain.IsTransientTransfer(err) {
			return "", 0, err
		}
		if attempt == maxAttempts {
			break
		}

		delay := backoffDelay(attempt, w.uploadCfg.RetryBaseDelay, w.uploadCfg.RetryMaxDelay)
		w.logger.Warn("transfer attempt failed, will retry", "session_id", sess.ID, "attempt", attempt, "max_attempts", maxAttempts, "delay", delay.String(), "error", err)

		if _, uerr := w.store.Update(ctx, sess.ID, func(s *domain.UploadSession) error {
			s.RetryCount = attempt
			s.Error = fmt.Sprintf("attempt %d/%d failed: %v; retrying in %s", attempt, maxAttempts, err, delay)
			return nil
		}); uerr != nil {
			if errors.Is(uerr, domain.ErrSessionFinished) {
				return "", 0, uerr
			}
			w.logger.Warn("failed to record retry state", "session_id", sess.ID, "error", uerr)
		}

		if serr := w.Sleep(ctx, delay); serr != nil {
			return "", 0, errInterrupted
		}
	}

	return "", 0, fmt.Errorf("upload failed after %d attempts: %w", maxAttempts, lastErr)
}

func (w *Worker) finish(ctx context.Context, sessionID, url string, size int64) error {
	sess, err := w.store.Update(ctx, sessionID, func(s *domain.UploadSession) error {
		s.Status = domain.SessionStatusCompleted
		s.Progress = 1.0
		s.ResultURL = url
		s.FileSize = size
		s.Error = ""
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionFinished) {
			// Cancelled at the finish line. The hosted file stays unused.
			w.logger.Warn("session finished elsewhere before completion was recorded", "session_id", sessionID)
			return nil
		}
		return err
	}
	w.logger.Info("upload completed", "session_id", sessionID, "url", url, "size_bytes", size)
	w.publish(ctx, *sess)
	return nil
}

func (w *Worker) markFailed(ctx context.Context, sessionID string, cause error) error {
	ctx = context.WithoutCancel(ctx)
	sess, err := w.store.Update(ctx, sessionID, func(s *domain.UploadSession) error {
		s.Status = domain.SessionStatusFailed
		s.Error = cause.Error()
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionFinished) {
			return nil
		}
		return err
	}
	w.logger.Error("upload failed", "session_id", sessionID, "error", cause)
	w.publish(ctx, *sess)
	return nil
}

func (w *Worker) markCancelled(ctx context.Context, sessionID string) error {
	// The surrounding context is already cancelled at this point.
	ctx = context.WithoutCancel(ctx)
	sess, err := w.store.Update(ctx, sessionID, func(s *domain.UploadSession) error {
		s.Status = domain.SessionStatusCancelled
		s.Error = "upload cancelled"
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionFinished) {
			return nil
		}
		return err
	}
	w.logger.Info("transfer interrupted, session cancelled", "session_id", sessionID)
	w.publish(ctx, *sess)
	return nil
}
