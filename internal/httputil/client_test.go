// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/pkg/types"
)

func testHTTPConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:     5 * time.Second,
		UserAgent:   "paperscout-test/0.1",
		MaxRetries:  2,
		BackoffBase: time.Millisecond,
	}
}

func TestClientGet_SendsUserAgentAndReadsBody(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><title>ok</title></html>")
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), testHTTPConfig())
	resp, err := c.Get(context.Background(), ts.URL+"/index")
	require.NoError(t, err)

	assert.Equal(t, "paperscout-test/0.1", gotUA)
	assert.True(t, resp.OK())
	assert.NoError(t, resp.CheckStatus())
	assert.Equal(t, "text/html; charset=utf-8", resp.ContentType())
	assert.Equal(t, "<html><title>ok</title></html>", string(resp.Body))
	assert.Equal(t, ts.URL+"/index", resp.URL)
}

func TestClientGet_NonOKIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	c := NewClient(ts.Client(), testHTTPConfig())
	resp, err := c.Get(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.ErrorIs(t, resp.CheckStatus(), ErrStatus)
}

func TestClientGet_BodyLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "0123456789")
	}))
	defer ts.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 4
	c := NewClient(ts.Client(), cfg)
	_, err := c.Get(context.Background(), ts.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	cfg.MaxBodyBytes = 10
	c = NewClient(ts.Client(), cfg)
	resp, err := c.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(resp.Body))
}

func TestClientGet_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "moved")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := NewClient(ts.Client(), testHTTPConfig())
	resp, err := c.Get(context.Background(), ts.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, ts.URL+"/new", resp.URL)
	assert.Equal(t, "moved", string(resp.Body))
}

func TestClientGet_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(nil, testHTTPConfig())
	_, err := c.Get(context.Background(), url)
	assert.Error(t, err)
}

func TestClientGet_RateLimitHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer ts.Close()

	cfg := testHTTPConfig()
	cfg.RatePerSecond = 0.001
	c := NewClient(ts.Client(), cfg)

	// The first request consumes the single burst token.
	_, err := c.Get(context.Background(), ts.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, ts.URL)
	assert.Error(t, err)
}
