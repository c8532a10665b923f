package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// payloadState caches the prepared payload so a retried upload does not
// download or sniff the source again.
type payloadState struct {
	path        string
	filename    string
	contentType string
	size        int64
	spooled     bool
	ready       bool
}

func (p *payloadState) discard() {
	if p.spooled && p.path != "" {
		_ = os.Remove(p.path)
	}
}

// preparePayload resolves the session source into an on-disk file plus the
// metadata the storage backend needs. URL sources are spooled to a temp file
// first. The call is idempotent, later attempts reuse the prepared state.
func (w *Worker) preparePayload(ctx context.Context, sess *domain.UploadSession, p *payloadState) error {
	if p.ready {
		return nil
	}

	if p.path == "" {
		switch sess.SourceKind {
		case domain.SourceKindURL:
			u, err := domain.ParseSourceURL(sess.SourceRef)
			if err != nil {
				return err
			}
			spooled, err := w.download(ctx, sess.ID, u)
			if err != nil {
				return err
			}
			p.path = spooled
			p.spooled = true
			p.filename = domain.FilenameFromURL(u)
		default:
			p.path = sess.SourceRef
			p.filename = filepath.Base(sess.SourceRef)
		}
	}

	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrFileNotFound, p.path)
	}
	p.size = info.Size()

	if limit := w.uploadCfg.MaxFileSize; limit > 0 && p.size > limit {
		return fmt.Errorf("%w: payload is %d bytes, the limit is %d", domain.ErrFileTooLarge, p.size, limit)
	}

	p.contentType = detectContentType(p.path, p.filename)

	// Record the real payload size, for URL sources it was unknown until now.
	if _, err := w.store.Update(ctx, sess.ID, func(s *domain.UploadSession) error {
		s.FileSize = p.size
		return nil
	}); err != nil {
		return err
	}

	p.ready = true
	return nil
}

// uploadOnce runs a single upload attempt under the per-attempt timeout,
// reporting progress on the upper band while the payload streams out.
func (w *Worker) uploadOnce(ctx context.Context, sessionID string, p *payloadState, progressFloor float64) (string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return "", domain.NewPermanentTransferError("open payload", err)
	}
	defer f.Close()

	if timeout := w.uploadCfg.AttemptTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	reader := newProgressReader(f, p.size, progressFloor, 0.9, func(progress float64) error {
		return w.setProgress(ctx, sessionID, progress)
	})

	return w.storage.Upload(ctx, reader, p.size, p.filename, p.contentType)
}

// download spools the remote payload into a temp file. When the source
// reports a length, the first half of the progress band tracks the download.
func (w *Worker) download(ctx context.Context, sessionID string, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", domain.NewPermanentTransferError("download source", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", domain.NewTransientTransferError("download source", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("%w: source returned status %d", domain.ErrNetwork, resp.StatusCode)
		if retryableStatus(resp.StatusCode) {
			return "", domain.NewTransientTransferError("download source", statusErr)
		}
		return "", domain.NewPermanentTransferError("download source", statusErr)
	}

	tmp, err := os.CreateTemp("", "fal-upload-spool-*")
	if err != nil {
		return "", domain.NewPermanentTransferError("spool payload", err)
	}

	var reader io.Reader = resp.Body
	if resp.ContentLength > 0 {
		reader = newProgressReader(resp.Body, resp.ContentLength, 0.1, 0.5, func(progress float64) error {
			return w.setProgress(ctx, sessionID, progress)
		})
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		if errors.Is(err, domain.ErrSessionFinished) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", domain.NewTransientTransferError("download source", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", domain.NewPermanentTransferError("spool payload", err)
	}

	return tmp.Name(), nil
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

// detectContentType prefers the filename extension and falls back to content
// sniffing, so payloads without an extension still get a sensible type.
func detectContentType(path, filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	if mtype, err := mimetype.DetectFile(path); err == nil {
		return mtype.String()
	}
	return "application/octet-stream"
}
