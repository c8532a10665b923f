package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/eventbroker/nats"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/state"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/storage"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/service/transfer"
)

// The worker process moves exactly one session to a terminal state and
// exits. It is launched detached so it survives its parent, and a SIGTERM
// lands the session in cancelled instead of leaving it mid-flight.
func main() {

	var sessionID string
	flag.StringVar(&sessionID, "session-id", "", "Upload session to execute (required)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if sessionID == "" {
		logger.Error("-session-id flag is required")
		os.Exit(2)
	}
	logger = logger.With("session_id", sessionID)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := state.New(cfg)
	if err != nil {
		logger.Error("failed to init session store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close session store", "error", err)
		}
	}()

	objectStorage, err := storage.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init storage backend", "error", err)
		os.Exit(1)
	}

	var events port.EventPublisher
	if cfg.NATS.URL != "" {
		publisher, err := nats.NewPublisher(cfg.NATS, logger)
		if err != nil {
			// Events are advisory, a dead broker must not block the transfer.
			logger.Warn("failed to init nats publisher, events disabled", "error", err)
		} else {
			defer func() {
				if err := publisher.Close(); err != nil {
					logger.Error("failed to close nats publisher", "error", err)
				}
			}()
			events = publisher
		}
	}

	worker := transfer.NewWorker(store, objectStorage, events, logger, cfg.Upload)

	if err := worker.Run(ctx, sessionID); err != nil {
		logger.Error("transfer worker failed", "error", err)
		os.Exit(1)
	}
}
