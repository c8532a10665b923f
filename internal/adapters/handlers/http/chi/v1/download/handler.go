package download

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

// HandlerV1 is the handler for v1 download routes
type HandlerV1 struct {
	downloadService port.DownloadService
	logger          *slog.Logger
}

// NewDownloadHandlerV1 creates HandlerV1
func NewDownloadHandlerV1(service port.DownloadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		downloadService: service,
		logger:          logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.DownloadFileV1)

	return router
}
