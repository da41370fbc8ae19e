package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrNotConnected     = errors.New("not connected")
	ErrClosed           = errors.New("connection closed")
	ErrAlreadyStarted   = errors.New("already started")
	ErrHeartbeatTimeout = errors.New("heartbeat ack overdue")
)

// ProtocolError indicates a malformed frame or protocol violation.
// It triggers a reconnect rather than terminating the connection.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway protocol: %s: %v", e.Reason, e.Err)
	}
	return "gateway protocol: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// State is the connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateReady
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Envelope is the inbound frame shape: an event-type tag plus an
// opaque payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Frame is an outbound frame. Fields not relevant to a frame type are
// omitted from the wire encoding.
type Frame struct {
	Type      string `json:"type"`
	Token     string `json:"token,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	SpaceID   string `json:"space_id,omitempty"`
}

// Outbound frame constructors.

func AuthFrame(token string) Frame { return Frame{Type: "auth", Token: token} }
func HeartbeatFrame() Frame        { return Frame{Type: "heartbeat"} }

func TypingFrame(channelID string) Frame { return Frame{Type: "typing", ChannelID: channelID} }

// SubscribeFrame returns the subscribe frame for a tracked resource.
func SubscribeFrame(kind Kind, id string) Frame {
	if kind == KindSpace {
		return Frame{Type: "subscribe_space", SpaceID: id}
	}
	return Frame{Type: "subscribe", ChannelID: id}
}

// UnsubscribeFrame returns the unsubscribe frame for a tracked resource.
func UnsubscribeFrame(kind Kind, id string) Frame {
	if kind == KindSpace {
		return Frame{Type: "unsubscribe_space", SpaceID: id}
	}
	return Frame{Type: "unsubscribe", ChannelID: id}
}

// authResult is the auth_failure payload.
type authResult struct {
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DispatchFunc receives every decoded inbound event, in arrival order,
// including the synthetic "ready" event after each authentication.
type DispatchFunc func(eventType string, data json.RawMessage)

// Config configures a gateway connection.
type Config struct {
	URL   string // Gateway websocket URL
	Token string // Bot token sent in the auth frame

	HeartbeatInterval  time.Duration // Interval between heartbeat frames
	AuthTimeout        time.Duration // Max wait for the auth acknowledgement
	HandshakeTimeout   time.Duration // Websocket dial handshake timeout
	WriteTimeout       time.Duration // Write deadline for outbound frames
	ReconnectBaseDelay time.Duration // Base reconnect backoff delay
	ReconnectMaxDelay  time.Duration // Reconnect backoff cap
}

// withDefaults fills in zero-valued durations.
func (c Config) withDefaults() Config {
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = 30 * time.Second
	}
	if c.AuthTimeout == 0 {
		c.AuthTimeout = 10 * time.Second
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.ReconnectBaseDelay == 0 {
		c.ReconnectBaseDelay = time.Second
	}
	if c.ReconnectMaxDelay == 0 {
		c.ReconnectMaxDelay = 60 * time.Second
	}
	return c
}
