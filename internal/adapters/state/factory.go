package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/state/file"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/state/postgres"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/state/sqlite"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"

	_ "github.com/lib/pq"
)

// New builds the configured session store. Both the API process and the
// detached workers go through here so every process sees the same records.
// The returned closer releases database handles, it is a no-op for the file
// backend.
func New(cfg *config.Config) (port.SessionStore, func() error, error) {
	switch cfg.State.Backend {
	case "file":
		store, err := file.NewStore(cfg.State.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil

	case "sqlite":
		path := cfg.State.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.State.Dir, "uploads.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create state dir: %w", err)
		}
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case "postgres":
		db, err := openPostgres(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(db), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
}

func openPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
