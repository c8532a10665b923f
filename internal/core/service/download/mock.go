package download

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
)

// MockDownloadService is a mock implementation of DownloadService
type MockDownloadService struct {
	mock.Mock
}

// NewMockDownloadService creates a new MockDownloadService
func NewMockDownloadService() *MockDownloadService {
	return &MockDownloadService{}
}

func (m *MockDownloadService) DownloadFile(ctx context.Context, rawURL, filename, dir string) (*domain.DownloadResult, error) {
	args := m.Called(ctx, rawURL, filename, dir)
	var result *domain.DownloadResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.DownloadResult)
	}
	return result, args.Error(1)
}
