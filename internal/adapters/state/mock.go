package state

import (
	"context"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

func (m *MockSessionStore) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*domain.UploadSession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update runs the mutator against the session the expectation returned, so
// tests observe the same read-modify-write cycle real stores implement.
func (m *MockSessionStore) Update(ctx context.Context, id string, mutate func(*domain.UploadSession) error) (*domain.UploadSession, error) {
	args := m.Called(ctx, id, mutate)
	sess, ok := args.Get(0).(*domain.UploadSession)
	if !ok || sess == nil {
		return nil, args.Error(1)
	}
	if err := mutate(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Now().UTC()
	return sess, args.Error(1)
}

func (m *MockSessionStore) List(ctx context.Context, activeOnly bool) ([]domain.UploadSession, error) {
	args := m.Called(ctx, activeOnly)
	if sessions, ok := args.Get(0).([]domain.UploadSession); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	args := m.Called(ctx, maxAge)
	return args.Int(0), args.Error(1)
}
