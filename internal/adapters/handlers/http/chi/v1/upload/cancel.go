package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// V1CancelResponse reports what the cancellation actually did
type V1CancelResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// CancelV1 is the function that handles Cancel
func (h *HandlerV1) CancelV1(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	outcome, err := h.uploadService.Cancel(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error cancelling upload", "session_id", sessionID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		resp := V1CancelResponse{SessionID: sessionID, Status: string(outcome)}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}
}
