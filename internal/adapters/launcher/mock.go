package launcher

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockLauncher struct {
	mock.Mock
}

func NewMockLauncher() *MockLauncher {
	return &MockLauncher{}
}

func (m *MockLauncher) Launch(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockLauncher) Alive(pid int) bool {
	args := m.Called(pid)
	return args.Bool(0)
}

func (m *MockLauncher) Terminate(pid int) error {
	args := m.Called(pid)
	return args.Error(0)
}
