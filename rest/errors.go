package rest

import (
	"fmt"
	"time"
)

// APIError is an error response from the Scatter API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scatter api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// NotFoundError is a 404 response.
type NotFoundError struct{ APIError }

func (e *NotFoundError) Unwrap() error { return &e.APIError }

// ForbiddenError is a 403 response.
type ForbiddenError struct{ APIError }

func (e *ForbiddenError) Unwrap() error { return &e.APIError }

// RateLimitError is a 429 response carrying the platform-provided
// retry-after duration (zero when the platform sent none).
type RateLimitError struct {
	APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("scatter api rate limited, retry after %s", e.RetryAfter)
	}
	return "scatter api rate limited"
}

func (e *RateLimitError) Unwrap() error { return &e.APIError }
