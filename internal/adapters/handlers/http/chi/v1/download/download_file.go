package download

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// V1DownloadFileRequest is the request to fetch a remote file onto local disk
type V1DownloadFileRequest struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	DownloadDir string `json:"download_dir"`
}

// V1DownloadFileResponse is the response to a finished download
type V1DownloadFileResponse struct {
	Filename    string `json:"filename"`
	Path        string `json:"path"`
	SizeBytes   int64  `json:"size_bytes"`
	DownloadDir string `json:"download_dir"`
	URL         string `json:"url"`
}

// DownloadFileV1 is the function that handles DownloadFile
func (h *HandlerV1) DownloadFileV1(w http.ResponseWriter, r *http.Request) {

	var req V1DownloadFileRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding download request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	result, err := h.downloadService.DownloadFile(r.Context(), req.URL, req.Filename, req.DownloadDir)
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrDestinationNotWritable):
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	case errors.Is(err, domain.ErrNetwork):
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	case err != nil:
		h.logger.Error("error downloading file", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		resp := V1DownloadFileResponse{
			Filename:    result.Filename,
			Path:        result.Path,
			SizeBytes:   result.SizeBytes,
			DownloadDir: result.DownloadDir,
			URL:         result.URL,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
