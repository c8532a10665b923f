package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// CheckStatusV1 is the function that handles CheckStatus
func (h *HandlerV1) CheckStatusV1(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	sess, err := h.uploadService.CheckStatus(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error checking upload status", "session_id", sessionID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		resp := newV1SessionResponse(*sess)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
