package fal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/storage/fal"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(storageURL string) *fal.Adapter {
	cfg := config.FalConfig{
		APIKey:      "test-key",
		StorageURL:  storageURL,
		StorageType: "fal-cdn-v3",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fal.NewAdapter(cfg, logger)
}

func TestAdapter_Upload_Success(t *testing.T) {
	// Arrange
	var uploaded []byte
	var initiateAuth, initiateBody, putContentType string

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/storage/upload/initiate", func(w http.ResponseWriter, r *http.Request) {
		initiateAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		initiateBody = string(body)
		json.NewEncoder(w).Encode(map[string]string{
			"upload_url": server.URL + "/put/abc123",
			"file_url":   "https://v3.fal.media/files/kangaroo/abc123_clip.mp4",
		})
	})
	mux.HandleFunc("/put/abc123", func(w http.ResponseWriter, r *http.Request) {
		putContentType = r.Header.Get("Content-Type")
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	adapter := newAdapter(server.URL)
	payload := strings.NewReader("fake video bytes")

	// Act
	url, err := adapter.Upload(context.Background(), payload, int64(payload.Len()), "clip.mp4", "video/mp4")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://v3.fal.media/files/kangaroo/abc123_clip.mp4", url)
	assert.Equal(t, "Key test-key", initiateAuth)
	assert.Contains(t, initiateBody, `"content_type":"video/mp4"`)
	assert.Contains(t, initiateBody, `"file_name":"clip.mp4"`)
	assert.Equal(t, "video/mp4", putContentType)
	assert.Equal(t, "fake video bytes", string(uploaded))
}

func TestAdapter_Upload_InitiateServerError_Transient(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()
	adapter := newAdapter(server.URL)

	// Act
	_, err := adapter.Upload(context.Background(), strings.NewReader("x"), 1, "clip.mp4", "video/mp4")

	// Assert
	require.Error(t, err)
	assert.True(t, domain.IsTransientTransfer(err))
	assert.Contains(t, err.Error(), "500")
}

func TestAdapter_Upload_InitiateThrottled_Transient(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()
	adapter := newAdapter(server.URL)

	// Act
	_, err := adapter.Upload(context.Background(), strings.NewReader("x"), 1, "clip.mp4", "video/mp4")

	// Assert
	require.Error(t, err)
	assert.True(t, domain.IsTransientTransfer(err))
}

func TestAdapter_Upload_AuthRejected_Permanent(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()
	adapter := newAdapter(server.URL)

	// Act
	_, err := adapter.Upload(context.Background(), strings.NewReader("x"), 1, "clip.mp4", "video/mp4")

	// Assert
	require.Error(t, err)
	assert.False(t, domain.IsTransientTransfer(err))
	assert.Contains(t, err.Error(), "FAL_KEY")
}

func TestAdapter_Upload_PayloadTooLarge_Permanent(t *testing.T) {
	// Arrange
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/storage/upload/initiate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"upload_url": server.URL + "/put/abc123",
			"file_url":   "https://v3.fal.media/files/kangaroo/abc123",
		})
	})
	mux.HandleFunc("/put/abc123", func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "too big", http.StatusRequestEntityTooLarge)
	})
	adapter := newAdapter(server.URL)

	// Act
	_, err := adapter.Upload(context.Background(), strings.NewReader("x"), 1, "clip.mp4", "video/mp4")

	// Assert
	require.Error(t, err)
	assert.False(t, domain.IsTransientTransfer(err))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestAdapter_Upload_ConnectionRefused_Transient(t *testing.T) {
	// Arrange: point at a server that is already gone.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()
	adapter := newAdapter(serverURL)

	// Act
	_, err := adapter.Upload(context.Background(), strings.NewReader("x"), 1, "clip.mp4", "video/mp4")

	// Assert
	require.Error(t, err)
	assert.True(t, domain.IsTransientTransfer(err))
}

func TestAdapter_Upload_IncompleteInitiateResponse_Permanent(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"upload_url": ""}`)
	}))
	defer server.Close()
	adapter := newAdapter(server.URL)

	// Act
	_, err := adapter.Upload(context.Background(), strings.NewReader("x"), 1, "clip.mp4", "video/mp4")

	// Assert
	require.Error(t, err)
	assert.False(t, domain.IsTransientTransfer(err))
}
