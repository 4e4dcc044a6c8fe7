package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/config"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
)

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerBaseURL = url
	cfg.RequestTimeout = 2 * time.Second
	cfg.UploadTimeout = 2 * time.Second
	return New(cfg)
}

func TestView_SendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/walls/abc123def0", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"wall":{"share_code":"abc123def0","title":"Sam turns 30"},"photos":[]}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	c.SetToken("tok-123")

	view, err := c.View(context.Background(), "abc123def0")
	require.NoError(t, err)
	assert.Equal(t, "Sam turns 30", view.Wall.Title)
}

func TestGet_RetriesOnceOnTransportFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Drop the connection mid-request to simulate a transport
			// failure rather than an HTTP error.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"wall":{"share_code":"abc123def0"}}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	view, err := c.View(context.Background(), "abc123def0")
	require.NoError(t, err)
	assert.Equal(t, "abc123def0", view.Wall.ShareCode)
	assert.Equal(t, 2, calls)
}

func TestWrite_DoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		hj := w.(http.Hijacker)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	err := c.Seal(context.Background(), "abc123def0")
	require.Error(t, err)
	// A failed API call surfaces as a generic transport error, not the
	// binary-store one reserved for UploadBinary.
	assert.ErrorIs(t, err, common.ErrTransport)
	assert.NotErrorIs(t, err, common.ErrUploadTransport)
	assert.Equal(t, 1, calls)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusNotFound, `{"error":"not found"}`, common.ErrNotFound},
		{http.StatusUnauthorized, `{"error":"authentication required"}`, common.ErrUnauthorized},
		{http.StatusForbidden, `{"error":"upload not permitted","reason":"sealed"}`, common.ErrPermissionDenied},
		{http.StatusConflict, `{"error":"wall is sealed or archived"}`, common.ErrWallImmutable},
		{http.StatusUnprocessableEntity, `{"error":"outside the creation window"}`, common.ErrOutOfWindow},
		{http.StatusBadRequest, `{"error":"bad"}`, common.ErrValidation},
		{http.StatusBadGateway, `{"error":"stored but not attached"}`, common.ErrAttachFailed},
		{http.StatusInternalServerError, `{"error":"internal error"}`, common.ErrInternal},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(tt.body))
		}))

		c := newClient(t, srv.URL)
		_, err := c.UploadStatus(context.Background(), "abc123def0")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)

		srv.Close()
	}
}

func TestValidateImage(t *testing.T) {
	// Minimal PNG header; DetectContentType only needs the magic bytes.
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	contentType, err := ValidateImage(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = ValidateImage(nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = ValidateImage([]byte("just some text, not an image, padded out to sniff length........"))
	assert.ErrorIs(t, err, common.ErrValidation)

	big := make([]byte, common.MaxUploadBytes+1)
	copy(big, png)
	_, err = ValidateImage(big)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUploadBinary(t *testing.T) {
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	err := c.UploadBinary(context.Background(), srv.URL+"/put", "image/jpeg", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", gotType)
}

func TestUploadBinary_Non200IsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	err := c.UploadBinary(context.Background(), srv.URL+"/put", "image/jpeg", []byte("data"))
	assert.ErrorIs(t, err, common.ErrUploadTransport)
}

func TestReact_PostsEmoji(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/photos/7/reactions", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "❤️", req["emoji"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"emoji":"❤️","count":2,"user_has_reacted":true}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	result, err := c.React(context.Background(), 7, "❤️")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.True(t, result.UserHasReacted)
}
