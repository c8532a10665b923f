package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

const recordSuffix = ".json"

// Store persists each session as one JSON file under the state directory.
// Writes go through a temp file plus rename so a concurrent reader never
// observes a half-written record. A per-session mutex serialises writers
// within this process; across processes the owning worker is the only
// writer apart from terminal-state cancellation.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates the state directory if needed and returns a file backed store
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create state dir %s: %v", domain.ErrStoreWrite, dir, err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

var _ port.SessionStore = (*Store)(nil)

// Create persists a brand new session record
func (s *Store) Create(ctx context.Context, session domain.UploadSession) error {
	if _, err := os.Stat(s.path(session.ID)); err == nil {
		return fmt.Errorf("%w: record for session %s already exists", domain.ErrStoreWrite, session.ID)
	}
	return s.write(session)
}

// Get loads one session by id
func (s *Store) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	return s.read(id)
}

// Update applies mutate to the current record and persists the result. Writes
// against a terminal session fail with domain.ErrSessionFinished.
func (s *Store) Update(ctx context.Context, id string, mutate func(*domain.UploadSession) error) (*domain.UploadSession, error) {
	lock := s.lock(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.read(id)
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
	if err := s.write(next); err != nil {
		return nil, err
	}
	return &next, nil
}

// List returns sessions newest first, optionally only active ones. Records
// that no longer parse are skipped, PurgeOlderThan reaps them.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]domain.UploadSession, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state dir: %w", err)
	}

	sessions := make([]domain.UploadSession, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordSuffix) {
			continue
		}
		sess, err := s.read(strings.TrimSuffix(entry.Name(), recordSuffix))
		if err != nil {
			continue
		}
		if activeOnly && !sess.Status.Active() {
			continue
		}
		sessions = append(sessions, *sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Delete removes one session record
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// PurgeOlderThan removes terminal sessions whose last update is older than
// maxAge, along with any record that no longer parses
func (s *Store) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read state dir: %w", err)
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordSuffix) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), recordSuffix)
		sess, err := s.read(id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) && os.Remove(s.path(id)) == nil {
				removed++
			}
			continue
		}
		if !sess.Status.Terminal() || sess.UpdatedAt.After(cutoff) {
			continue
		}
		if os.Remove(s.path(id)) == nil {
			removed++
		}
	}
	return removed, nil
}

func (s *Store) lock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+recordSuffix)
}

func (s *Store) read(id string) (*domain.UploadSession, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var sess domain.UploadSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: corrupted record for session %s", domain.ErrSessionNotFound, id)
	}
	return &sess, nil
}

func (s *Store) write(session domain.UploadSession) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal session %s: %v", domain.ErrStoreWrite, session.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, session.ID+".tmp-")
	if err != nil {
		return fmt.Errorf("%w: create temp record: %v", domain.ErrStoreWrite, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write temp record: %v", domain.ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close temp record: %v", domain.ErrStoreWrite, err)
	}
	if err := os.Rename(tmp.Name(), s.path(session.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace record for session %s: %v", domain.ErrStoreWrite, session.ID, err)
	}
	return nil
}
