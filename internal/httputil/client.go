// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paperscout/pkg/types"
)

// ErrStatus marks a response whose status is not 200 OK.
var ErrStatus = errors.New("unexpected HTTP status")

// ErrBodyTooLarge marks a response body longer than MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// Response is a fully read HTTP response.
type Response struct {
	// URL is the final URL after redirects.
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the response status is 200.
func (r *Response) OK() bool {
	return r.Status == http.StatusOK
}

// CheckStatus returns an error wrapping ErrStatus when the response is not 200.
func (r *Response) CheckStatus() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: HTTP %d from %s", ErrStatus, r.Status, r.URL)
}

// ContentType returns the Content-Type header value.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Client issues GET requests with a fixed user agent, status-triggered
// retries, an optional request-rate cap, and a bounded body size. It is used
// strictly sequentially by the crawl.
type Client struct {
	http      *http.Client
	userAgent string
	policy    RetryPolicy
	limiter   *rate.Limiter
	maxBody   int64
}

// NewClient builds a Client from cfg. A nil hc uses a fresh http.Client
// with cfg.Timeout.
func NewClient(hc *http.Client, cfg types.HTTPConfig) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{
		http:      hc,
		userAgent: cfg.UserAgent,
		policy: RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.BackoffBase,
			Statuses:   cfg.RetryStatuses,
		},
		maxBody: cfg.MaxBodyBytes,
	}
	if cfg.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return c
}

// Get fetches url and reads the whole body. A body over the size limit
// fails with ErrBodyTooLarge. A non-200 status is not an error here;
// callers inspect Response.Status or call CheckStatus.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := DoWithRetry(ctx, c.http, req, c.policy)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.maxBody > 0 {
		body = io.LimitReader(resp.Body, c.maxBody+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}
	if c.maxBody > 0 && int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrBodyTooLarge, url, c.maxBody)
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return &Response{
		URL:    final,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}
