package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/eventbroker/nats"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/handlers/http/chi"
	download2 "github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/handlers/http/chi/v1/download"
	upload2 "github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/launcher"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/state"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/storage"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/service/download"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/service/upload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

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
	logger.Info("session store ready", "backend", cfg.State.Backend)

	// The workers own the actual transfers, this probe only makes bad
	// storage credentials fail at startup instead of in a worker log.
	if _, err := storage.New(ctx, cfg, logger); err != nil {
		logger.Error("failed to init storage backend", "error", err)
		os.Exit(1)
	}

	var events port.EventPublisher
	if cfg.NATS.URL != "" {
		publisher, err := nats.NewPublisher(cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init nats publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("failed to close nats publisher", "error", err)
			}
		}()
		events = publisher
	}

	workerLauncher := launcher.NewLauncher(cfg.Upload, cfg.State.Dir, logger)

	uploadService := upload.NewUploadService(store, workerLauncher, events, logger, cfg.Upload)
	downloadService := download.NewDownloadService(logger, cfg.Download)

	//http
	uploadHandler := upload2.NewUploadHandlerV1(uploadService, logger)
	downloadHandler := download2.NewDownloadHandlerV1(downloadService, logger)

	router := chi.NewRouter(logger, uploadHandler, downloadHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, uploadService, cfg.Upload, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

// initCleanupTask periodically purges finished session records older than the
// configured age. Running workers are never touched, this only trims history.
func initCleanupTask(ctx context.Context, service port.UploadService, cfg config.UploadConfig, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.CleanupEvery)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", cfg.CleanupEvery, "max_age", cfg.CleanupMaxAge)

	for {
		select {
		case <-ticker.C:
			removed, err := service.Cleanup(ctx, cfg.CleanupMaxAge.Hours())
			if err != nil {
				logger.Error("failed to cleanup finished sessions", "error", err)
			} else if removed > 0 {
				logger.Info("cleanup task completed", "removed", removed)
			}
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
