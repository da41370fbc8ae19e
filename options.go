package scatter

import (
	"log/slog"

	"github.com/starforge/scatter-go/dispatch"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logging sink for the client and every
// subsystem it wires.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDecoder replaces the standard model decoder.
func WithDecoder(d dispatch.Decoder) Option {
	return func(c *Client) {
		c.decoder = d
	}
}
