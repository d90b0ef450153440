package fetch

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	"github.com/leih66181-lang/aio-crawler/internal/log"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.ConnectLimit = 4
	cfg.LimitPerHost = 2
	cfg.Timeout = 2 * time.Second
	return New(cfg, log.New(true))
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	c := testClient(t)
	res, err := c.Fetch(context.Background(), srv.URL, false)
	require.NoError(t, err)
	require.NotNil(t, res.Status)
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, *res.Status)
	assert.Equal(t, "<html>hello</html>", res.HTML)
}

func TestFetch_LightMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	c := testClient(t)
	res, err := c.Fetch(context.Background(), srv.URL, true)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 10, res.HTMLLen)
	assert.Empty(t, res.HTML)
}

func TestFetch_Soft404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><head><title>404 Not Found</title></head></html>"))
	}))
	defer srv.Close()

	c := testClient(t)
	res, err := c.Fetch(context.Background(), srv.URL, false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusOK, *res.Status)
}

func TestFetch_HardStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	c := testClient(t)
	res, err := c.Fetch(context.Background(), srv.URL, false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	require.NotNil(t, res.Status)
	assert.Equal(t, http.StatusNotFound, *res.Status)
}

func TestFetch_TransportErrorYieldsNullStatus(t *testing.T) {
	c := testClient(t)
	res, err := c.Fetch(context.Background(), "http://127.0.0.1:1/unreachable", false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Nil(t, res.Status)
}

func TestFetch_InvalidURL(t *testing.T) {
	c := testClient(t)
	_, err := c.Fetch(context.Background(), "://bad", false)
	require.Error(t, err)
}

func TestFetch_SelfSignedTLSSucceeds(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>secure</html>"))
	}))
	defer srv.Close()

	c := testClient(t)
	res, err := c.Fetch(context.Background(), srv.URL, false)
	require.NoError(t, err)
	require.NotNil(t, res.Status)
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, *res.Status)
	assert.Equal(t, "<html>secure</html>", res.HTML)
}

func TestFetch_GzipDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("<html>zipped</html>"))
		gz.Close()
	}))
	defer srv.Close()

	c := testClient(t)
	res, err := c.Fetch(context.Background(), srv.URL, false)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "<html>zipped</html>", res.HTML)
}
