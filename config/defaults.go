package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL    = "https://scatter.starforge.games/api"
	DefaultGatewayURL = "wss://scatter.starforge.games/gateway"

	DefaultAPITimeout    = 30 * time.Second
	DefaultAttemptBudget = 3
	DefaultRetryBackoff  = 1 * time.Second
	DefaultBackoffCap    = 30 * time.Second

	DefaultHeartbeatInterval  = 30 * time.Second
	DefaultAuthTimeout        = 10 * time.Second
	DefaultHandshakeTimeout   = 10 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second

	DefaultTypingInterval = 4 * time.Second
)

// ApplyDefaults fills in zero-valued optional fields.
func (c *Config) ApplyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.AttemptBudget == 0 {
		c.API.AttemptBudget = DefaultAttemptBudget
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.BackoffCap == 0 {
		c.API.BackoffCap = DefaultBackoffCap
	}

	if c.Gateway.URL == "" {
		c.Gateway.URL = DefaultGatewayURL
	}
	if c.Gateway.HeartbeatInterval == 0 {
		c.Gateway.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Gateway.AuthTimeout == 0 {
		c.Gateway.AuthTimeout = DefaultAuthTimeout
	}
	if c.Gateway.HandshakeTimeout == 0 {
		c.Gateway.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = DefaultWriteTimeout
	}
	if c.Gateway.ReconnectBaseDelay == 0 {
		c.Gateway.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Gateway.ReconnectMaxDelay == 0 {
		c.Gateway.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}

	if c.Typing.Interval == 0 {
		c.Typing.Interval = DefaultTypingInterval
	}
}
