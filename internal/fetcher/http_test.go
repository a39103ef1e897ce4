package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Basic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "licenses-cli/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{})
	resp, err := c.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("hello"), resp.Body)
}

func TestGet_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "licenses", r.URL.Query().Get("context"))
		assert.Equal(t, "abc-123", r.URL.Query().Get("uids"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{})
	q := url.Values{}
	q.Set("context", "licenses")
	q.Set("uids", "abc-123")
	_, err := c.Get(context.Background(), srv.URL, q)
	require.NoError(t, err)
}

func TestGet_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{})
	resp, err := c.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, []byte("boom"), resp.Body)
}

func TestPost_BodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"total": 1}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{})
	resp, err := c.Post(context.Background(), srv.URL, []byte(`{"inn":"7707083893"}`),
		map[string]string{"Content-Type": "application/json"})
	require.NoError(t, err)

	var parsed struct {
		Total int `json:"total"`
	}
	require.NoError(t, resp.JSON(&parsed))
	assert.Equal(t, 1, parsed.Total)
}

func TestDefaultHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-1", r.Header.Get("X-Auth"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{DefaultHeaders: map[string]string{"X-Auth": "token-1"}})
	_, err := c.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
}

func TestGet_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{Timeout: 20 * time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
}

func TestGet_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewHTTPClient(HTTPOptions{})
	_, err := c.Get(ctx, srv.URL, nil)
	require.Error(t, err)
}

func TestResponse_JSONEmptyBody(t *testing.T) {
	resp := &Response{StatusCode: http.StatusOK}
	var v map[string]any
	require.NoError(t, resp.JSON(&v))
	assert.Nil(t, v)
}

func TestResponse_JSONMalformed(t *testing.T) {
	resp := &Response{StatusCode: http.StatusOK, Body: []byte(`{not json`)}
	var v map[string]any
	err := resp.JSON(&v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
