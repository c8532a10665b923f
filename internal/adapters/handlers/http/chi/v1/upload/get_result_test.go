package upload_test

import (
	"encoding/json"
	"fmt"
	http2 "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	upload2 "github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/service/upload"
)

func TestGetResultV1_Success(t *testing.T) {
	// Arrange
	mockService := upload.NewMockUploadService()
	mockService.On("GetResult", mock.Anything, "upload_cafe0001_1").
		Return("https://v3.fal.media/files/x/clip.mp4", int64(2048), nil)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/upload_cafe0001_1/result", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusOK, w.Code)

	var resp upload2.V1GetResultResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "upload_cafe0001_1", resp.SessionID)
	assert.Equal(t, "https://v3.fal.media/files/x/clip.mp4", resp.URL)
	assert.Equal(t, int64(2048), resp.FileSize)
}

func TestGetResultV1_NotReady(t *testing.T) {
	// Arrange
	mockService := upload.NewMockUploadService()
	mockService.On("GetResult", mock.Anything, "upload_cafe0001_1").
		Return("", int64(0), fmt.Errorf("%w: session is uploading at 55%%", domain.ErrNotReady))

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/upload_cafe0001_1/result", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "uploading at 55%")
}

func TestGetResultV1_Failed(t *testing.T) {
	// Arrange
	mockService := upload.NewMockUploadService()
	mockService.On("GetResult", mock.Anything, "upload_cafe0001_1").
		Return("", int64(0), fmt.Errorf("%w: status 502", domain.ErrUploadFailed))

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/upload_cafe0001_1/result", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), "upload failed")
}

func TestGetResultV1_Cancelled(t *testing.T) {
	// Arrange
	mockService := upload.NewMockUploadService()
	mockService.On("GetResult", mock.Anything, "upload_cafe0001_1").
		Return("", int64(0), domain.ErrUploadCancelled)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/upload_cafe0001_1/result", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusGone, w.Code)
}

func TestGetResultV1_NotFound(t *testing.T) {
	// Arrange
	mockService := upload.NewMockUploadService()
	mockService.On("GetResult", mock.Anything, "upload_deadbeef_0").
		Return("", int64(0), domain.ErrSessionNotFound)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/upload_deadbeef_0/result", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusNotFound, w.Code)
}
