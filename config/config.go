package config

import "time"

// Config is the full client configuration.
type Config struct {
	// Token is the bot token used for both REST and gateway auth.
	Token string `yaml:"token" env:"SCATTER_TOKEN"`

	API     APIConfig     `yaml:"api" envPrefix:"SCATTER_API_"`
	Gateway GatewayConfig `yaml:"gateway" envPrefix:"SCATTER_GATEWAY_"`
	Typing  TypingConfig  `yaml:"typing" envPrefix:"SCATTER_TYPING_"`
}

// APIConfig configures the REST client.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url" env:"BASE_URL"`
	Timeout       time.Duration `yaml:"timeout" env:"TIMEOUT"`
	AttemptBudget int           `yaml:"attempt_budget" env:"ATTEMPT_BUDGET"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" env:"RETRY_BACKOFF"`
	BackoffCap    time.Duration `yaml:"backoff_cap" env:"BACKOFF_CAP"`
}

// GatewayConfig configures the gateway connection.
type GatewayConfig struct {
	URL                string        `yaml:"url" env:"URL"`
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval" env:"HEARTBEAT_INTERVAL"`
	AuthTimeout        time.Duration `yaml:"auth_timeout" env:"AUTH_TIMEOUT"`
	HandshakeTimeout   time.Duration `yaml:"handshake_timeout" env:"HANDSHAKE_TIMEOUT"`
	WriteTimeout       time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay" env:"RECONNECT_BASE_DELAY"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay" env:"RECONNECT_MAX_DELAY"`
}

// TypingConfig configures the typing keep-alive.
type TypingConfig struct {
	// Interval between repeated typing indicators. Scatter indicators
	// expire after ~5s client-side.
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
}
