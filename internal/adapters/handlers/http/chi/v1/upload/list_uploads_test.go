package upload_test

import (
	"encoding/json"
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

func TestListUploadsV1_All(t *testing.T) {
	// Arrange
	first := domain.NewUploadSession(domain.SourceKindFile, "/data/a.mp4")
	second := domain.NewUploadSession(domain.SourceKindURL, "https://example.com/b.mp4")
	second.Status = domain.SessionStatusCompleted

	mockService := upload.NewMockUploadService()
	mockService.On("ListUploads", mock.Anything, false).
		Return([]domain.UploadSession{second, first}, nil)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusOK, w.Code)

	var resp upload2.V1ListUploadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.TotalCount)
	assert.False(t, resp.ActiveOnly)
	assert.Equal(t, second.ID, resp.Uploads[0].SessionID)
	mockService.AssertExpectations(t)
}

func TestListUploadsV1_ActiveOnly(t *testing.T) {
	// Arrange
	mockService := upload.NewMockUploadService()
	mockService.On("ListUploads", mock.Anything, true).
		Return([]domain.UploadSession{}, nil)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/?active=true", nil)

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http2.StatusOK, w.Code)

	var resp upload2.V1ListUploadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Zero(t, resp.TotalCount)
	assert.True(t, resp.ActiveOnly)
	assert.NotNil(t, resp.Uploads)
	mockService.AssertExpectations(t)
}
