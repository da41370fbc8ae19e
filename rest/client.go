package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Scatter API root.
const DefaultBaseURL = "https://scatter.starforge.games/api"

// Client provides access to the Scatter REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	attemptBudget int
	retryBackoff  time.Duration
	backoffCap    time.Duration

	// onRetry, if set, is invoked once per retried attempt.
	onRetry func()
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a REST client authenticating with the given bot
// token. The default attempt budget is 3 per logical call.
func NewClient(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:        slog.Default(),
		attemptBudget: 3,
		retryBackoff:  time.Second,
		backoffCap:    30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAttemptBudget sets the maximum attempts per logical call.
func WithAttemptBudget(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attemptBudget = n
		}
	}
}

// WithBackoff sets the retry backoff base and cap.
func WithBackoff(base, cap time.Duration) Option {
	return func(c *Client) {
		c.retryBackoff = base
		c.backoffCap = cap
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryHook registers a callback invoked on each retried attempt.
func WithRetryHook(fn func()) Option {
	return func(c *Client) {
		c.onRetry = fn
	}
}
