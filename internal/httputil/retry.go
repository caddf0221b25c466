// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for linear backoff between
// attempts. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxAttempts = 3

// TransientStatusError reports a retryable HTTP status (5xx or 429) that
// survived the whole attempt budget.
type TransientStatusError struct {
	Status int
}

func (e *TransientStatusError) Error() string {
	return fmt.Sprintf("transient HTTP %d after retries", e.Status)
}

// PermanentStatusError reports a non-retryable HTTP status (4xx other than
// 429). It is returned immediately, without retrying.
type PermanentStatusError struct {
	Status int
}

func (e *PermanentStatusError) Error() string {
	return fmt.Sprintf("permanent HTTP %d", e.Status)
}

// retryableStatus reports whether an HTTP status is worth another attempt.
// Rate limiting (429) and server-side failures (5xx) are transient; every
// other non-2xx status signals a request that will not get better.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Fetch performs a GET against url and returns the response body. Transport
// errors, 5xx and 429 responses are retried up to maxAttempts times with
// linear backoff: the wait after attempt n is n*RetryBaseDelay. The backoff
// is deliberately gentle — the upstream is a shared public service and a
// crawl already multiplies request volume by the page count.
//
// When maxAttempts is 0 the default (3) is used. The context is checked
// before each attempt and during each backoff wait; an already-cancelled
// context fails fast without issuing a request. Exhausting the budget
// surfaces the last transport error, or a *TransientStatusError carrying
// the final HTTP status.
func Fetch(ctx context.Context, client *http.Client, url, userAgent string, maxAttempts int) ([]byte, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}

		resp, err := client.Do(req)
		switch {
		case err != nil:
			// Transport failure. Keep the error and retry, unless the
			// context is the reason the transport gave up.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err

		case resp.StatusCode == http.StatusOK:
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return nil, fmt.Errorf("reading response body: %w", readErr)
			}
			return body, nil

		case retryableStatus(resp.StatusCode):
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = &TransientStatusError{Status: resp.StatusCode}

		default:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &PermanentStatusError{Status: resp.StatusCode}
		}

		if attempt == maxAttempts {
			break
		}

		backoff := time.Duration(attempt) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, lastErr
}
