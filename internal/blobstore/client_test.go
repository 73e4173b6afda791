package blobstore_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justichain/justichain/internal/blobstore"
	"github.com/justichain/justichain/internal/registry"
)

func newClient(baseURL string) *blobstore.Client {
	return blobstore.NewClient(blobstore.ClientConfig{
		BaseURL:         baseURL,
		Timeout:         2 * time.Second,
		MaxRetries:      3,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		Logger:          zerolog.Nop(),
	})
}

func TestClient_Exists(t *testing.T) {
	digest := registry.HashText("filed brief")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/blobs/"+string(digest) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newClient(server.URL)

	found, err := client.Exists(context.Background(), digest)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = client.Exists(context.Background(), registry.HashText("missing"))
	assert.True(t, errors.Is(err, blobstore.ErrBlobNotFound))
}

func TestClient_Exists_ZeroDigest(t *testing.T) {
	client := newClient("http://unused")

	found, err := client.Exists(context.Background(), registry.ZeroDigest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_RetryOn5xx(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newClient(server.URL)

	found, err := client.Exists(context.Background(), registry.HashText("evidence"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int32(3), attempts.Load(), "should have retried until success")
}
