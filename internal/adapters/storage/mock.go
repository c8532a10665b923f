package storage

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Upload(ctx context.Context, payload io.Reader, size int64, filename, contentType string) (string, error) {
	args := m.Called(ctx, payload, size, filename, contentType)
	return args.String(0), args.Error(1)
}
