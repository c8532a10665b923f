package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists sessions in a single SQLite database. WAL mode plus a busy
// timeout let the API process and detached workers share the file, and
// immediate transactions give Update its read-modify-write atomicity.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path and ensures the schema
func NewStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate&_loc=UTC", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite state db: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return store, nil
}

var _ port.SessionStore = (*Store)(nil)

func (s *Store) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS upload_sessions (
		id TEXT PRIMARY KEY,
		source_kind TEXT NOT NULL,
		source_ref TEXT NOT NULL,
		status TEXT NOT NULL,
		progress REAL NOT NULL DEFAULT 0,
		file_size INTEGER NOT NULL DEFAULT 0,
		result_url TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		retry_count INTEGER NOT NULL DEFAULT 0,
		worker_pid INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_upload_sessions_status ON upload_sessions(status);`

	_, err := s.db.Exec(query)
	return err
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Create persists a brand new session record
func (s *Store) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_sessions (
			id, source_kind, source_ref, status, progress, file_size,
			result_url, error, retry_count, worker_pid, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		string(session.SourceKind),
		session.SourceRef,
		string(session.Status),
		session.Progress,
		session.FileSize,
		session.ResultURL,
		session.Error,
		session.RetryCount,
		session.WorkerPID,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert session %s: %v", domain.ErrStoreWrite, session.ID, err)
	}
	return nil
}

// Get loads one session by id
func (s *Store) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	return scanSession(s.db.QueryRowContext(ctx, selectQuery+` WHERE id = ?`, id))
}

// Update applies mutate inside an immediate transaction so concurrent writers
// from other processes queue up behind the busy timeout
func (s *Store) Update(ctx context.Context, id string, mutate func(*domain.UploadSession) error) (*domain.UploadSession, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin update for session %s: %v", domain.ErrStoreWrite, id, err)
	}
	defer tx.Rollback()

	current, err := scanSession(tx.QueryRowContext(ctx, selectQuery+` WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %s is %s", domain.ErrSessionFinished, id, current.Status)
	}

	next := *current
	if err := mutate(&next); err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(current.Status, next.Status); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE upload_sessions
		SET status = ?, progress = ?, file_size = ?, result_url = ?, error = ?,
		    retry_count = ?, worker_pid = ?, updated_at = ?
		WHERE id = ?`

	result, err := tx.ExecContext(
		ctx,
		query,
		string(next.Status),
		next.Progress,
		next.FileSize,
		next.ResultURL,
		next.Error,
		next.RetryCount,
		next.WorkerPID,
		next.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: update session %s: %v", domain.ErrStoreWrite, id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrSessionNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit update for session %s: %v", domain.ErrStoreWrite, id, err)
	}
	return &next, nil
}

// List returns sessions newest first, optionally only active ones
func (s *Store) List(ctx context.Context, activeOnly bool) ([]domain.UploadSession, error) {
	query := selectQuery
	var args []any
	if activeOnly {
		query += ` WHERE status IN (?, ?)`
		args = append(args, string(domain.SessionStatusStarting), string(domain.SessionStatusUploading))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		var row dbSession
		if err := row.scan(rows); err != nil {
			return nil, err
		}
		sessions = append(sessions, *row.ToDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Delete removes one session record
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// PurgeOlderThan removes terminal sessions whose last update is older than maxAge
func (s *Store) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	query := `
		DELETE FROM upload_sessions
		WHERE updated_at < ? AND status IN (?, ?, ?)`

	result, err := s.db.ExecContext(
		ctx,
		query,
		time.Now().UTC().Add(-maxAge),
		string(domain.SessionStatusCompleted),
		string(domain.SessionStatusFailed),
		string(domain.SessionStatusCancelled),
	)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

const selectQuery = `
	SELECT id, source_kind, source_ref, status, progress, file_size,
	       result_url, error, retry_count, worker_pid, created_at, updated_at
	FROM upload_sessions`

type dbSession struct {
	ID         string
	SourceKind string
	SourceRef  string
	Status     string
	Progress   float64
	FileSize   int64
	ResultURL  string
	Error      string
	RetryCount int
	WorkerPID  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *dbSession) scan(src rowScanner) error {
	return src.Scan(
		&r.ID,
		&r.SourceKind,
		&r.SourceRef,
		&r.Status,
		&r.Progress,
		&r.FileSize,
		&r.ResultURL,
		&r.Error,
		&r.RetryCount,
		&r.WorkerPID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

// ToDomain converts db obj to domain
func (r *dbSession) ToDomain() *domain.UploadSession {
	return &domain.UploadSession{
		ID:         r.ID,
		SourceKind: domain.SourceKind(r.SourceKind),
		SourceRef:  r.SourceRef,
		Status:     domain.SessionStatus(r.Status),
		Progress:   r.Progress,
		FileSize:   r.FileSize,
		ResultURL:  r.ResultURL,
		Error:      r.Error,
		RetryCount: r.RetryCount,
		WorkerPID:  r.WorkerPID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func scanSession(row *sql.Row) (*domain.UploadSession, error) {
	var r dbSession
	if err := r.scan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return r.ToDomain(), nil
}
