package upload

import (
	"encoding/json"
	"net/http"
)

// V1ListUploadsResponse is the response to list upload sessions
type V1ListUploadsResponse struct {
	Uploads    []V1SessionResponse `json:"uploads"`
	TotalCount int                 `json:"total_count"`
	ActiveOnly bool                `json:"active_only"`
}

// ListUploadsV1 is the function that handles ListUploads
func (h *HandlerV1) ListUploadsV1(w http.ResponseWriter, r *http.Request) {

	activeOnly := r.URL.Query().Get("active") == "true"

	sessions, err := h.uploadService.ListUploads(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("error listing uploads", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	uploads := make([]V1SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		uploads = append(uploads, newV1SessionResponse(sess))
	}

	resp := V1ListUploadsResponse{Uploads: uploads, TotalCount: len(uploads), ActiveOnly: activeOnly}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
