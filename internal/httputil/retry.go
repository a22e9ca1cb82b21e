// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP fetch capability used by the crawl:
// a paced, retrying GET that returns status, headers, and body.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"slices"
	"time"
)

const defaultMaxRetries = 3

// RetryPolicy decides which responses are retried and how long to wait.
type RetryPolicy struct {
	// MaxRetries caps the number of retries after the first attempt.
	// Zero disables retries; a negative value uses the default (3).
	MaxRetries int

	// BaseDelay is the first backoff; each attempt doubles it.
	BaseDelay time.Duration

	// Statuses lists the response codes that trigger a retry.
	Statuses []int
}

// DefaultRetryStatuses are the server-side codes retried when a policy lists none.
var DefaultRetryStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

func (p RetryPolicy) retries(status int) bool {
	statuses := p.Statuses
	if len(statuses) == 0 {
		statuses = DefaultRetryStatuses
	}
	return slices.Contains(statuses, status)
}

// DoWithRetry executes an HTTP request and retries on the policy's status
// codes with exponential backoff: BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
//
// Transport errors are returned immediately; they are not retried. On each
// retryable response the body is drained and closed before sleeping. If the
// context is cancelled during a backoff wait the function returns ctx.Err().
// After exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !policy.retries(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * policy.BaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
