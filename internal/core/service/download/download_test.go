package download_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/service/download"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDownloadService_DownloadFile_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	service := download.NewDownloadService(newTestLogger(), config.DownloadConfig{Dir: dir})

	// Act
	result, err := service.DownloadFile(ctx, server.URL+"/media/clip.mp4", "", "")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "clip.mp4", result.Filename)
	assert.Equal(t, filepath.Join(dir, "clip.mp4"), result.Path)
	assert.Equal(t, int64(len("video-bytes")), result.SizeBytes)
	assert.Equal(t, dir, result.DownloadDir)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))
}

func TestDownloadService_DownloadFile_ExplicitFilenameAndDir(t *testing.T) {
	// Arrange
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	base := t.TempDir()
	target := filepath.Join(base, "nested", "dir")
	service := download.NewDownloadService(newTestLogger(), config.DownloadConfig{Dir: base})

	// Act
	result, err := service.DownloadFile(ctx, server.URL+"/whatever", "renamed.bin", target)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "renamed.bin", result.Filename)
	assert.Equal(t, filepath.Join(target, "renamed.bin"), result.Path)
	assert.FileExists(t, result.Path)
}

func TestDownloadService_DownloadFile_FilenameWithoutExtensionFallsBack(t *testing.T) {
	// Arrange
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	dir := t.TempDir()
	service := download.NewDownloadService(newTestLogger(), config.DownloadConfig{Dir: dir})

	// Act
	result, err := service.DownloadFile(ctx, server.URL+"/media/stream", "", "")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.FallbackDownloadName, result.Filename)
}

func TestDownloadService_DownloadFile_PathTraversalIsStripped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	dir := t.TempDir()
	service := download.NewDownloadService(newTestLogger(), config.DownloadConfig{Dir: dir})

	// Act
	result, err := service.DownloadFile(ctx, server.URL+"/clip.mp4", "../../escape.bin", "")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "escape.bin", result.Filename)
	assert.Equal(t, filepath.Join(dir, "escape.bin"), result.Path)
}

func TestDownloadService_DownloadFile_InvalidURL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := download.NewDownloadService(newTestLogger(), config.DownloadConfig{Dir: t.TempDir()})

	// Act
	result, err := service.DownloadFile(ctx, "not-a-url", "", "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, result)
}

func TestDownloadService_DownloadFile_SourceError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dir := t.TempDir()
	service := download.NewDownloadService(newTestLogger(), config.DownloadConfig{Dir: dir})

	// Act
	result, err := service.DownloadFile(ctx, server.URL+"/clip.mp4", "", "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorContains(t, err, "status 500")
	assert.Nil(t, result)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no partial file is left behind")
}

func TestDownloadService_DownloadFile_DestinationNotWritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	// Arrange
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	base := t.TempDir()
	readonly := filepath.Join(base, "readonly")
	require.NoError(t, os.MkdirAll(readonly, 0o555))
	service := download.NewDownloadService(newTestLogger(), config.DownloadConfig{Dir: base})

	// Act
	_, err := service.DownloadFile(ctx, server.URL+"/clip.mp4", "", filepath.Join(readonly, "sub"))

	// Assert
	assert.ErrorIs(t, err, domain.ErrDestinationNotWritable)
}
