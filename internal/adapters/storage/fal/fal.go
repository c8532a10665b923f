package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

// Adapter pushes payloads to fal.ai object storage. The flow is two steps:
// an initiate call that hands back a signed upload URL plus the final public
// URL, then a PUT of the raw bytes against the signed URL.
type Adapter struct {
	httpClient *http.Client
	config     config.FalConfig
	logger     *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(cfg config.FalConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		httpClient: &http.Client{},
		config:     cfg,
		logger:     logger,
	}
}

var _ port.ObjectStorage = (*Adapter)(nil)

type initiateRequest struct {
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
}

type initiateResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
}

// Upload streams size bytes from payload into fal storage and returns the
// public file URL. Failures come back as domain.TransferError so the caller
// can tell retryable conditions from permanent ones.
func (a *Adapter) Upload(ctx context.Context, payload io.Reader, size int64, filename, contentType string) (string, error) {
	target, err := a.initiate(ctx, filename, contentType)
	if err != nil {
		return "", err
	}

	if err := a.put(ctx, target.UploadURL, payload, size, contentType); err != nil {
		return "", err
	}

	a.logger.Info("payload stored",
		slog.String("file_name", filename),
		slog.Int64("size", size),
		slog.String("file_url", target.FileURL))

	return target.FileURL, nil
}

func (a *Adapter) initiate(ctx context.Context, filename, contentType string) (*initiateResponse, error) {
	const op = "initiate upload"

	endpoint := fmt.Sprintf(
		"%s/storage/upload/initiate?storage_type=%s",
		strings.TrimRight(a.config.StorageURL, "/"),
		url.QueryEscape(a.config.StorageType),
	)

	body, err := json.Marshal(initiateRequest{ContentType: contentType, FileName: filename})
	if err != nil {
		return nil, domain.NewPermanentTransferError(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewPermanentTransferError(op, err)
	}
	req.Header.Set("Authorization", "Key "+a.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransientTransferError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(op, resp)
	}

	var target initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&target); err != nil {
		return nil, domain.NewTransientTransferError(op, fmt.Errorf("decode response: %w", err))
	}
	if target.UploadURL == "" || target.FileURL == "" {
		return nil, domain.NewPermanentTransferError(op, fmt.Errorf("incomplete initiate response"))
	}
	return &target, nil
}

func (a *Adapter) put(ctx context.Context, uploadURL string, payload io.Reader, size int64, contentType string) error {
	const op = "transfer payload"

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, payload)
	if err != nil {
		return domain.NewPermanentTransferError(op, err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return domain.NewTransientTransferError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(op, resp)
	}

	// drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)
	return nil
}

// classifyStatus maps an HTTP failure to a transfer error. Throttling,
// timeouts and server errors are retryable, everything else is not.
func classifyStatus(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))

	switch {
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return domain.NewTransientTransferError(op, err)
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return domain.NewPermanentTransferError(op, fmt.Errorf("%w: %v", domain.ErrFileTooLarge, err))
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return domain.NewPermanentTransferError(op, fmt.Errorf("authentication rejected, check FAL_KEY: %v", err))
	}
	return domain.NewPermanentTransferError(op, err)
}
