package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// doRequest performs a single HTTP attempt.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.statusError(resp, respBody)
	}

	return respBody, nil
}

// statusError maps an error response to the client error taxonomy.
func (c *Client) statusError(resp *http.Response, body []byte) error {
	apiErr := APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Body:       body,
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{apiErr}
	case http.StatusForbidden:
		return &ForbiddenError{apiErr}
	case http.StatusTooManyRequests:
		return &RateLimitError{
			APIError:   apiErr,
			RetryAfter: retryAfter(resp, body),
		}
	}
	return &apiErr
}

// retryAfter extracts the platform-provided wait from the Retry-After
// header or the retry_after body field.
func retryAfter(resp *http.Response, body []byte) time.Duration {
	if h := resp.Header.Get("Retry-After"); h != "" {
		if secs, err := strconv.ParseFloat(h, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}

	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}
	return 0
}

// doWithRetry performs a request with at most the configured attempt
// budget. Rate limits wait the platform-provided duration; 5xx waits
// capped exponential backoff with jitter; other 4xx fail immediately.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 1; attempt <= c.attemptBudget; attempt++ {
		respBody, err := c.doRequest(ctx, method, path, query, body)
		if err == nil {
			return respBody, nil
		}
		lastErr = err

		wait, retryable := c.retryWait(err, backoff)
		if !retryable || attempt == c.attemptBudget {
			break
		}

		c.logger.Debug("retrying request",
			"method", method,
			"path", path,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
		if c.onRetry != nil {
			c.onRetry()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}

		backoff *= 2
		if backoff > c.backoffCap {
			backoff = c.backoffCap
		}
	}

	return nil, lastErr
}

// retryWait returns the wait before the next attempt, and whether the
// error is retryable at all.
func (c *Client) retryWait(err error, backoff time.Duration) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		if rl.RetryAfter > 0 {
			return rl.RetryAfter, true
		}
		return backoff, true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if !apiErr.IsRetryable() {
			return 0, false
		}
		return jittered(backoff), true
	}

	// Transport-level failure.
	return jittered(backoff), true
}

// jittered spreads backoff over 0.5x..1.5x.
func jittered(d time.Duration) time.Duration {
	if d < 2 {
		return d
	}
	return d/2 + rand.N(d)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) patch(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPatch, path, nil, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPut, path, nil, body, result)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// call performs a retried request and unmarshals the response into
// result when both are non-empty.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, result any) error {
	respBody, err := c.doWithRetry(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
