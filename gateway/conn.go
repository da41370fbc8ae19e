package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is the single long-lived connection to the gateway. From the
// caller's perspective a started connection behaves as one continuous
// stream of events even across transport-level reconnects: handler
// wiring and tracked subscriptions survive, events that occurred while
// disconnected do not (the platform delivers live state only).
type Conn struct {
	cfg      Config
	tracker  *Tracker
	dispatch DispatchFunc
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	epoch   *epoch
	err     error
	readyAt time.Time
	onState func(State)

	// Consecutive failed connection attempts; supervisor-only.
	attempts int

	// Write serialization
	writeMu sync.Mutex

	// Outstanding heartbeat tracking
	hbMu     sync.Mutex
	lastSent time.Time
	lastAck  time.Time

	wg       sync.WaitGroup
	done     chan struct{}
	doneOnce sync.Once
	stopOnce sync.Once
}

// epoch is the per-socket state for one connection attempt. Loops for a
// stale epoch report into its own fail channel and exit; the supervisor
// only ever observes the current epoch.
type epoch struct {
	ws   *websocket.Conn
	fail chan error
	done chan struct{}
	log  *slog.Logger
}

func (ep *epoch) report(err error) {
	select {
	case <-ep.done:
	case ep.fail <- err:
	default:
	}
}

// New creates a gateway connection. dispatch receives every inbound
// event in arrival order, including the synthetic "ready" event.
func New(cfg Config, tracker *Tracker, dispatch DispatchFunc, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{
		cfg:      cfg.withDefaults(),
		tracker:  tracker,
		dispatch: dispatch,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// OnStateChange registers a hook invoked on every state transition.
// Must be called before Start.
func (c *Conn) OnStateChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = fn
}

// Start dials the gateway, authenticates, replays tracked
// subscriptions, and begins the background read and heartbeat loops.
// It returns once the connection is ready. Authentication rejection or
// timeout returns an error wrapping ErrAuthFailed and is not retried;
// later transport failures are recovered internally with backoff.
func (c *Conn) Start(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateDisconnected:
	case StateClosed:
		c.mu.Unlock()
		return ErrClosed
	default:
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	if err := c.connect(); err != nil {
		c.cancel()
		c.setState(StateDisconnected)
		return err
	}

	c.wg.Add(1)
	go c.supervise()
	return nil
}

// Stop closes the socket, cancels the background loops, and waits for
// them to exit. The connection is terminal afterwards.
func (c *Conn) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		cancel := c.cancel
		ep := c.epoch
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if ep != nil {
			ep.ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			ep.ws.Close()
		}
		c.wg.Wait()
		c.finish(nil)
	})
}

// Send writes an outbound frame. It fails with ErrNotConnected unless
// the connection is currently ready.
func (c *Conn) Send(frame Frame) error {
	c.mu.Lock()
	if c.state != StateReady || c.epoch == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	ws := c.epoch.ws
	c.mu.Unlock()

	if err := c.write(ws, frame); err != nil {
		return fmt.Errorf("send %s frame: %w", frame.Type, err)
	}
	return nil
}

// State returns the current connection state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed when the connection reaches its terminal state.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Err returns the fatal error that terminated the connection, if any.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// connect performs one full connection attempt: dial, authenticate,
// replay subscriptions, fire ready, spawn the epoch loops.
func (c *Conn) connect() error {
	c.setState(StateConnecting)

	log := c.logger.With("session", uuid.NewString())

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	ws, _, err := dialer.DialContext(c.ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}

	c.setState(StateAuthenticating)
	readyData, err := c.authenticate(ws)
	if err != nil {
		ws.Close()
		return err
	}

	ep := &epoch{
		ws:   ws,
		fail: make(chan error, 2),
		done: make(chan struct{}),
		log:  log,
	}

	c.mu.Lock()
	c.epoch = ep
	c.readyAt = time.Now()
	c.mu.Unlock()

	c.hbMu.Lock()
	c.lastSent = time.Time{}
	c.lastAck = time.Now()
	c.hbMu.Unlock()

	c.setState(StateReady)

	if err := c.replay(ws); err != nil {
		ws.Close()
		return fmt.Errorf("replay subscriptions: %w", err)
	}

	// Exactly one ready per successful (re)authentication.
	c.dispatch("ready", readyData)

	c.wg.Add(2)
	go c.readLoop(ep)
	go c.heartbeatLoop(ep)

	log.Info("gateway ready")
	return nil
}

// authenticate sends the auth frame and waits for the acknowledgement
// within the configured timeout. Returns the auth_success payload.
func (c *Conn) authenticate(ws *websocket.Conn) (json.RawMessage, error) {
	if err := c.write(ws, AuthFrame(c.cfg.Token)); err != nil {
		return nil, fmt.Errorf("send auth frame: %w", err)
	}

	ws.SetReadDeadline(time.Now().Add(c.cfg.AuthTimeout))
	defer ws.SetReadDeadline(time.Time{})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("await auth ack: %v: %w", err, ErrAuthFailed)
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, &ProtocolError{Reason: "malformed auth response", Err: err}
		}

		switch env.Type {
		case "auth_success":
			return env.Data, nil
		case "auth_failure":
			var res authResult
			json.Unmarshal(env.Data, &res)
			reason := res.Reason
			if reason == "" {
				reason = res.Error
			}
			if reason == "" {
				reason = "rejected"
			}
			return nil, fmt.Errorf("%s: %w", reason, ErrAuthFailed)
		default:
			// Not part of the handshake; skip.
		}
	}
}

// replay re-sends subscribe frames for every tracked id. A send
// failure here is a transport error and aborts the attempt.
func (c *Conn) replay(ws *websocket.Conn) error {
	spaces, channels := c.tracker.Snapshot()
	for _, id := range spaces {
		if err := c.write(ws, SubscribeFrame(KindSpace, id)); err != nil {
			return fmt.Errorf("space %s: %w", id, err)
		}
	}
	for _, id := range channels {
		if err := c.write(ws, SubscribeFrame(KindChannel, id)); err != nil {
			return fmt.Errorf("channel %s: %w", id, err)
		}
	}
	if len(spaces)+len(channels) > 0 {
		c.logger.Debug("replayed subscriptions",
			"spaces", len(spaces),
			"channels", len(channels),
		)
	}
	return nil
}

// write marshals and sends one frame with the configured deadline.
func (c *Conn) write(ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return ws.WriteMessage(websocket.TextMessage, data)
}

// readLoop consumes inbound frames one at a time, preserving arrival
// order, and hands every event frame to the dispatch function. Unknown
// event types pass through untouched; forward compatibility is the
// dispatcher's concern.
func (c *Conn) readLoop(ep *epoch) {
	defer c.wg.Done()

	for {
		_, data, err := ep.ws.ReadMessage()
		if err != nil {
			ep.report(fmt.Errorf("read frame: %w", err))
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			ep.report(&ProtocolError{Reason: "malformed frame", Err: err})
			return
		}
		if env.Type == "" {
			ep.report(&ProtocolError{Reason: "frame missing type tag"})
			return
		}

		switch env.Type {
		case "heartbeat_ack":
			c.hbMu.Lock()
			c.lastAck = time.Now()
			c.hbMu.Unlock()
		case "auth_success", "auth_failure":
			// Handshake frames outside the handshake; ignore.
		default:
			c.dispatch(env.Type, env.Data)
		}
	}
}

// heartbeatLoop sends a heartbeat every interval and treats a missing
// ack for a full interval as a dead connection.
func (c *Conn) heartbeatLoop(ep *epoch) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ep.done:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
		}

		c.hbMu.Lock()
		sent, ack := c.lastSent, c.lastAck
		c.hbMu.Unlock()

		if !sent.IsZero() && ack.Before(sent) {
			ep.log.Warn("heartbeat ack overdue", "sent", sent, "last_ack", ack)
			ep.report(ErrHeartbeatTimeout)
			return
		}

		// Record the send time before writing so an ack that arrives
		// while the write is in flight is never ordered before it.
		c.hbMu.Lock()
		c.lastSent = time.Now()
		c.hbMu.Unlock()

		if err := c.write(ep.ws, HeartbeatFrame()); err != nil {
			ep.report(fmt.Errorf("send heartbeat: %w", err))
			return
		}
	}
}

// supervise reacts to epoch failures: tears the stale epoch down and
// reconnects with backoff until stopped or authentication fails.
func (c *Conn) supervise() {
	defer c.wg.Done()

	for {
		c.mu.Lock()
		ep := c.epoch
		c.mu.Unlock()

		var cause error
		select {
		case <-c.ctx.Done():
			c.teardown(ep)
			c.finish(nil)
			return
		case cause = <-ep.fail:
		}
		if c.ctx.Err() != nil {
			c.teardown(ep)
			c.finish(nil)
			return
		}

		ep.log.Warn("gateway connection lost", "error", cause)
		c.teardown(ep)

		// Backoff resets only after Ready was held for at least one
		// heartbeat interval.
		c.mu.Lock()
		sustained := time.Since(c.readyAt) > c.cfg.HeartbeatInterval
		c.mu.Unlock()
		if sustained {
			c.attempts = 0
		}

		c.setState(StateReconnecting)
		if !c.reconnect() {
			return
		}
	}
}

// reconnect retries connect() with capped exponential backoff and
// jitter. There is no attempt ceiling: it returns false only when the
// connection was stopped or re-authentication failed.
func (c *Conn) reconnect() bool {
	for {
		delay := jitter(backoffDelay(c.cfg.ReconnectBaseDelay, c.cfg.ReconnectMaxDelay, c.attempts), c.cfg.ReconnectMaxDelay)
		c.attempts++
		c.logger.Info("reconnecting", "attempt", c.attempts, "delay", delay)

		select {
		case <-c.ctx.Done():
			c.finish(nil)
			return false
		case <-time.After(delay):
		}

		err := c.connect()
		if err == nil {
			return true
		}
		if errors.Is(err, ErrAuthFailed) {
			c.logger.Error("re-authentication failed, giving up", "error", err)
			c.finish(err)
			return false
		}
		c.logger.Warn("reconnect attempt failed", "attempt", c.attempts, "error", err)
	}
}

// teardown stops an epoch's loops and closes its socket.
func (c *Conn) teardown(ep *epoch) {
	if ep == nil {
		return
	}
	select {
	case <-ep.done:
	default:
		close(ep.done)
	}
	ep.ws.Close()
}

func (c *Conn) setState(s State) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = s
	hook := c.onState
	c.mu.Unlock()

	if hook != nil {
		hook(s)
	}
}

// finish transitions to the terminal Closed state.
func (c *Conn) finish(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	alreadyClosed := c.state == StateClosed
	c.state = StateClosed
	hook := c.onState
	c.mu.Unlock()

	if hook != nil && !alreadyClosed {
		hook(StateClosed)
	}
	c.doneOnce.Do(func() { close(c.done) })
}

// backoffDelay is the un-jittered delay before the given zero-based
// attempt: min(cap, base * 2^attempt).
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		d = max
	}
	return d
}

// jitter spreads a delay over 0.75x..1.25x, clamped to max.
func jitter(d, max time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	j := d*3/4 + rand.N(d/2)
	if j > max {
		j = max
	}
	return j
}
