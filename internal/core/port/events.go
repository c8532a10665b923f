package port

import (
	"context"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// EventPublisher is an interface to define a transfer event publisher (nats, kafka, ...)
type EventPublisher interface {
	PublishTransferEvent(ctx context.Context, event domain.TransferEvent) error
	Close() error
}
