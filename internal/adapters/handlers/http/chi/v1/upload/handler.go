package upload

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

// HandlerV1 is the handler for v1 upload session routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.StartUploadV1)
	router.Post("/url", h.StartUploadFromURLV1)
	router.Get("/", h.ListUploadsV1)
	router.Post("/cleanup", h.CleanupV1)
	router.Get("/{sessionID}", h.CheckStatusV1)
	router.Get("/{sessionID}/result", h.GetResultV1)
	router.Delete("/{sessionID}", h.CancelV1)

	return router
}

// V1SessionResponse is the wire shape of an upload session. The worker pid is
// a process-local detail and stays out of it.
type V1SessionResponse struct {
	SessionID  string    `json:"session_id"`
	SourceKind string    `json:"source_kind"`
	SourceRef  string    `json:"source_ref"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	FileSize   int64     `json:"file_size"`
	ResultURL  string    `json:"result_url,omitempty"`
	Error      string    `json:"error,omitempty"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newV1SessionResponse(sess domain.UploadSession) V1SessionResponse {
	return V1SessionResponse{
		SessionID:  sess.ID,
		SourceKind: string(sess.SourceKind),
		SourceRef:  sess.SourceRef,
		Status:     string(sess.Status),
		Progress:   sess.Progress,
		FileSize:   sess.FileSize,
		ResultURL:  sess.ResultURL,
		Error:      sess.Error,
		RetryCount: sess.RetryCount,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	}
}
