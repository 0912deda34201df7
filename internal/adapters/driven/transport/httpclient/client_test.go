package httpclient

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "user_ids=1&v=5.199", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"response":[]}`)
	}))
	defer server.Close()

	resp, err := New().Get(context.Background(), server.URL+"/users.get?user_ids=1&v=5.199")

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, `{"response":[]}`, string(resp.Body))
}

func TestClient_PostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "abc", r.PostForm.Get("code"))
		assert.Equal(t, "Basic eDp5", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid_client"}`)
	}))
	defer server.Close()

	form := url.Values{"grant_type": {"authorization_code"}, "code": {"abc"}}
	header := http.Header{"Authorization": {"Basic eDp5"}}
	resp, err := New().PostForm(context.Background(), server.URL, form, header)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.JSONEq(t, `{"error":"invalid_client"}`, string(resp.Body))
}

func TestClient_GzipBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		_, _ = io.WriteString(zw, `{"ok":true}`)
		_ = zw.Close()
	}))
	defer server.Close()

	// An explicit Accept-Encoding disables the transparent decompression
	// in net/http, so the client has to do it.
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		r.Header.Set("Accept-Encoding", "gzip")
		return http.DefaultTransport.RoundTrip(r)
	})
	c := NewWithClient(&http.Client{Transport: rt})

	resp, err := c.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := New().Get(context.Background(), addr)
	assert.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Get(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_BadURL(t *testing.T) {
	_, err := New().Get(context.Background(), "://bad")
	assert.Error(t, err)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
