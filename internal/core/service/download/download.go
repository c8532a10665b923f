package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

type downloadService struct {
	logger      *slog.Logger
	downloadCfg config.DownloadConfig
	httpClient  *http.Client
}

// NewDownloadService creates a new download service
func NewDownloadService(logger *slog.Logger, cfg config.DownloadConfig) port.DownloadService {
	return &downloadService{
		logger:      logger,
		downloadCfg: cfg,
		httpClient:  &http.Client{},
	}
}

// DownloadFile fetches rawURL onto local disk and blocks until the payload is
// written out. The destination directory is created when missing.
func (d *downloadService) DownloadFile(ctx context.Context, rawURL, filename, dir string) (*domain.DownloadResult, error) {
	u, err := domain.ParseSourceURL(rawURL)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dir) == "" {
		dir = d.downloadCfg.Dir
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid download dir %q: %v", domain.ErrValidation, dir, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDestinationNotWritable, absDir, err)
	}

	if strings.TrimSpace(filename) == "" {
		filename = domain.FilenameFromURL(u)
	}
	filename = filepath.Base(filename)
	target := filepath.Join(absDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: source returned status %d", domain.ErrNetwork, resp.StatusCode)
	}

	out, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDestinationNotWritable, target, err)
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		os.Remove(target)
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDestinationNotWritable, target, err)
	}

	d.logger.Info("file downloaded", "url", u.String(), "path", target, "size_bytes", written)

	return &domain.DownloadResult{
		Filename:    filename,
		Path:        target,
		SizeBytes:   written,
		DownloadDir: absDir,
		URL:         u.String(),
	}, nil
}
