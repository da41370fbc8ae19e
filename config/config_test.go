package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
token: scatter_bot_abc
api:
  base_url: http://localhost:8080/api
  attempt_budget: 5
gateway:
  url: ws://localhost:8080/gateway
  heartbeat_interval: 15s
typing:
  interval: 2s
`)

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, "scatter_bot_abc", cfg.Token)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.AttemptBudget)
	assert.Equal(t, "ws://localhost:8080/gateway", cfg.Gateway.URL)
	assert.Equal(t, 15*time.Second, cfg.Gateway.HeartbeatInterval)
	assert.Equal(t, 2*time.Second, cfg.Typing.Interval)

	// Unset fields get defaults.
	assert.Equal(t, DefaultAPITimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultReconnectMaxDelay, cfg.Gateway.ReconnectMaxDelay)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_SCATTER_TOKEN", "scatter_bot_from_env")

	path := writeConfig(t, "token: ${TEST_SCATTER_TOKEN}\n")

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)
	assert.Equal(t, "scatter_bot_from_env", cfg.Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "token: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config yaml")
}

func TestValidateMissingToken(t *testing.T) {
	path := writeConfig(t, "api:\n  timeout: 10s\n")
	_, err := LoadAndValidate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestValidateBadURLs(t *testing.T) {
	cfg := &Config{Token: "t"}
	cfg.ApplyDefaults()
	cfg.API.BaseURL = "ftp://example.com"
	cfg.Gateway.URL = "http://not-a-websocket"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
	assert.Contains(t, err.Error(), "gateway.url")
}

func TestValidateRanges(t *testing.T) {
	cfg := &Config{Token: "t"}
	cfg.ApplyDefaults()
	cfg.API.AttemptBudget = -1
	cfg.Gateway.ReconnectBaseDelay = 2 * time.Minute
	cfg.Gateway.ReconnectMaxDelay = time.Second
	cfg.Typing.Interval = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempt_budget")
	assert.Contains(t, err.Error(), "reconnect_base_delay")
	assert.Contains(t, err.Error(), "typing.interval")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SCATTER_TOKEN", "scatter_bot_env")
	t.Setenv("SCATTER_API_BASE_URL", "http://localhost:9999/api")
	t.Setenv("SCATTER_GATEWAY_HEARTBEAT_INTERVAL", "12s")
	t.Setenv("SCATTER_TYPING_INTERVAL", "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "scatter_bot_env", cfg.Token)
	assert.Equal(t, "http://localhost:9999/api", cfg.API.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Gateway.HeartbeatInterval)
	assert.Equal(t, 3*time.Second, cfg.Typing.Interval)
	assert.Equal(t, DefaultGatewayURL, cfg.Gateway.URL)
}

func TestDefault(t *testing.T) {
	cfg, err := Default("scatter_bot_abc")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultGatewayURL, cfg.Gateway.URL)
	assert.Equal(t, DefaultTypingInterval, cfg.Typing.Interval)

	_, err = Default("")
	assert.Error(t, err)
}
