package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// V1CleanupRequest is the request to purge finished sessions. A missing body
// purges everything older than a day.
type V1CleanupRequest struct {
	MaxAgeHours *float64 `json:"max_age_hours"`
}

// V1CleanupResponse is the response to a cleanup run
type V1CleanupResponse struct {
	CleanedCount int     `json:"cleaned_count"`
	MaxAgeHours  float64 `json:"max_age_hours"`
}

// CleanupV1 is the function that handles Cleanup
func (h *HandlerV1) CleanupV1(w http.ResponseWriter, r *http.Request) {

	var req V1CleanupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("error decoding cleanup request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	maxAgeHours := 24.0
	if req.MaxAgeHours != nil {
		maxAgeHours = *req.MaxAgeHours
	}

	removed, err := h.uploadService.Cleanup(r.Context(), maxAgeHours)
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("error cleaning up sessions", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		resp := V1CleanupResponse{CleanedCount: removed, MaxAgeHours: maxAgeHours}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
