package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// V1GetResultResponse is the response to get the outcome of a completed upload
type V1GetResultResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	FileSize  int64  `json:"file_size"`
}

// GetResultV1 is the function that handles GetResult
func (h *HandlerV1) GetResultV1(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	url, size, err := h.uploadService.GetResult(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrNotReady):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrUploadFailed), errors.Is(err, domain.ErrUploadCancelled):
		http.Error(w, err.Error(), http.StatusGone)
		return
	case err != nil:
		h.logger.Error("error getting upload result", "session_id", sessionID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		resp := V1GetResultResponse{SessionID: sessionID, URL: url, FileSize: size}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
