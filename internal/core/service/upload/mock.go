package upload

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) StartUpload(ctx context.Context, path string) (*domain.UploadSession, int, error) {
	args := m.Called(ctx, path)
	var sess *domain.UploadSession
	if args.Get(0) != nil {
		sess = args.Get(0).(*domain.UploadSession)
	}
	return sess, args.Int(1), args.Error(2)
}

func (m *MockUploadService) StartUploadFromURL(ctx context.Context, rawURL string) (*domain.UploadSession, int, error) {
	args := m.Called(ctx, rawURL)
	var sess *domain.UploadSession
	if args.Get(0) != nil {
		sess = args.Get(0).(*domain.UploadSession)
	}
	return sess, args.Int(1), args.Error(2)
}

func (m *MockUploadService) CheckStatus(ctx context.Context, sessionID string) (*domain.UploadSession, error) {
	args := m.Called(ctx, sessionID)
	var sess *domain.UploadSession
	if args.Get(0) != nil {
		sess = args.Get(0).(*domain.UploadSession)
	}
	return sess, args.Error(1)
}

func (m *MockUploadService) GetResult(ctx context.Context, sessionID string) (string, int64, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockUploadService) Cancel(ctx context.Context, sessionID string) (domain.CancelOutcome, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.CancelOutcome), args.Error(1)
}

func (m *MockUploadService) ListUploads(ctx context.Context, activeOnly bool) ([]domain.UploadSession, error) {
	args := m.Called(ctx, activeOnly)
	var sessions []domain.UploadSession
	if args.Get(0) != nil {
		sessions = args.Get(0).([]domain.UploadSession)
	}
	return sessions, args.Error(1)
}

func (m *MockUploadService) Cleanup(ctx context.Context, maxAgeHours float64) (int, error) {
	args := m.Called(ctx, maxAgeHours)
	return args.Int(0), args.Error(1)
}
