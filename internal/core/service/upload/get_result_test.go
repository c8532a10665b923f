package upload_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/launcher"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/state"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/service/upload"
)

func sessionWithStatus(status domain.SessionStatus) *domain.UploadSession {
	sess := domain.NewUploadSession(domain.SourceKindFile, "/tmp/clip.mp4")
	sess.Status = status
	return &sess
}

func TestUploadService_GetResult_Completed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStore := state.NewMockSessionStore()
	service := upload.NewUploadService(mockStore, launcher.NewMockLauncher(), nil, newTestLogger(), config.UploadConfig{})

	sess := sessionWithStatus(domain.SessionStatusCompleted)
	sess.ResultURL = "https://v3.fal.media/files/x/clip.mp4"
	sess.FileSize = 2048
	mockStore.On("Get", ctx, sess.ID).Return(sess, nil)

	// Act
	url, size, err := service.GetResult(ctx, sess.ID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "https://v3.fal.media/files/x/clip.mp4", url)
	assert.Equal(t, int64(2048), size)
}

func TestUploadService_GetResult_Failed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStore := state.NewMockSessionStore()
	service := upload.NewUploadService(mockStore, launcher.NewMockLauncher(), nil, newTestLogger(), config.UploadConfig{})

	sess := sessionWithStatus(domain.SessionStatusFailed)
	sess.Error = "upload failed after 3 attempts: status 502"
	mockStore.On("Get", ctx, sess.ID).Return(sess, nil)

	// Act
	url, _, err := service.GetResult(ctx, sess.ID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.ErrorContains(t, err, "status 502")
	assert.Empty(t, url)
}

func TestUploadService_GetResult_Cancelled(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStore := state.NewMockSessionStore()
	service := upload.NewUploadService(mockStore, launcher.NewMockLauncher(), nil, newTestLogger(), config.UploadConfig{})

	sess := sessionWithStatus(domain.SessionStatusCancelled)
	mockStore.On("Get", ctx, sess.ID).Return(sess, nil)

	// Act
	_, _, err := service.GetResult(ctx, sess.ID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrUploadCancelled)
}

func TestUploadService_GetResult_StillUploading(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStore := state.NewMockSessionStore()
	service := upload.NewUploadService(mockStore, launcher.NewMockLauncher(), nil, newTestLogger(), config.UploadConfig{})

	sess := sessionWithStatus(domain.SessionStatusUploading)
	sess.Progress = 0.62
	mockStore.On("Get", ctx, sess.ID).Return(sess, nil)

	// Act
	_, _, err := service.GetResult(ctx, sess.ID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.ErrorContains(t, err, "62%")
}

func TestUploadService_GetResult_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStore := state.NewMockSessionStore()
	service := upload.NewUploadService(mockStore, launcher.NewMockLauncher(), nil, newTestLogger(), config.UploadConfig{})

	mockStore.On("Get", ctx, "upload_deadbeef_0").Return(nil, domain.ErrSessionNotFound)

	// Act
	_, _, err := service.GetResult(ctx, "upload_deadbeef_0")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
