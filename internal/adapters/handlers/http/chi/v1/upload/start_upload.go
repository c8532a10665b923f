package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// V1StartUploadRequest is the request to start a background upload of a local file
type V1StartUploadRequest struct {
	FilePath string `json:"file_path"`
}

// V1StartUploadResponse is the response to a started upload
type V1StartUploadResponse struct {
	SessionID                string `json:"session_id"`
	Status                   string `json:"status"`
	FileSize                 int64  `json:"file_size"`
	EstimatedDurationSeconds int    `json:"estimated_duration_seconds"`
}

// StartUploadV1 is the function that handles StartUpload
func (h *HandlerV1) StartUploadV1(w http.ResponseWriter, r *http.Request) {

	var req V1StartUploadRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding start upload request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.FilePath == "" {
		http.Error(w, "file_path is required", http.StatusBadRequest)
		return
	}

	sess, estimate, err := h.uploadService.StartUpload(r.Context(), req.FilePath)
	switch {
	case errors.Is(err, domain.ErrFileNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("error starting upload", "error", err)
		http.Error(w, "could not start upload", http.StatusServiceUnavailable)
		return
	default:
		resp := V1StartUploadResponse{
			SessionID:                sess.ID,
			Status:                   string(sess.Status),
			FileSize:                 sess.FileSize,
			EstimatedDurationSeconds: estimate,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
