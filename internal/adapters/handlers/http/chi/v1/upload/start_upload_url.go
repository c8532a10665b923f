package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// V1StartUploadFromURLRequest is the request to start a background upload of a remote URL
type V1StartUploadFromURLRequest struct {
	URL string `json:"url"`
}

// StartUploadFromURLV1 is the function that handles StartUploadFromURL
func (h *HandlerV1) StartUploadFromURLV1(w http.ResponseWriter, r *http.Request) {

	var req V1StartUploadFromURLRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding start upload from url request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	sess, estimate, err := h.uploadService.StartUploadFromURL(r.Context(), req.URL)
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("error starting upload from url", "error", err)
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
