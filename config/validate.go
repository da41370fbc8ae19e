package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks required fields and value ranges. Call after
// ApplyDefaults.
func (c *Config) Validate() error {
	var problems []string

	if c.Token == "" {
		problems = append(problems, "token is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("api.base_url %q must be an http(s) URL", c.API.BaseURL))
	}
	if !strings.HasPrefix(c.Gateway.URL, "ws://") && !strings.HasPrefix(c.Gateway.URL, "wss://") {
		problems = append(problems, fmt.Sprintf("gateway.url %q must be a ws(s) URL", c.Gateway.URL))
	}
	if c.API.AttemptBudget < 1 {
		problems = append(problems, "api.attempt_budget must be at least 1")
	}
	if c.Gateway.HeartbeatInterval <= 0 {
		problems = append(problems, "gateway.heartbeat_interval must be positive")
	}
	if c.Gateway.ReconnectBaseDelay > c.Gateway.ReconnectMaxDelay {
		problems = append(problems, "gateway.reconnect_base_delay exceeds reconnect_max_delay")
	}
	if c.Typing.Interval <= 0 {
		problems = append(problems, "typing.interval must be positive")
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}
