// Package scatter is the client runtime for the Scatter chat platform:
// a persistent gateway connection delivering typed events to registered
// handlers, plus a REST client for platform operations.
package scatter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/starforge/scatter-go/config"
	"github.com/starforge/scatter-go/dispatch"
	"github.com/starforge/scatter-go/gateway"
	"github.com/starforge/scatter-go/metric"
	"github.com/starforge/scatter-go/model"
	"github.com/starforge/scatter-go/rest"
)

// Client is the main interface for a Scatter bot. It wires the gateway
// connection, the event dispatcher, and the REST client, and owns their
// lifetimes.
type Client struct {
	cfg    *config.Config
	logger *slog.Logger

	api        *rest.Client
	gw         *gateway.Conn
	tracker    *gateway.Tracker
	dispatcher *dispatch.Dispatcher
	decoder    dispatch.Decoder
	metrics    *metric.Metrics

	mu     sync.Mutex
	ctx    context.Context
	userID string
}

// New creates a Client from a config. Defaults are applied and the
// config validated, so only Token is strictly required.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:     cfg,
		logger:  slog.Default(),
		decoder: model.Decoder{},
		metrics: metric.New(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.api = rest.NewClient(
		cfg.API.BaseURL,
		cfg.Token,
		rest.WithLogger(c.logger.With("component", "rest")),
		rest.WithTimeout(cfg.API.Timeout),
		rest.WithAttemptBudget(cfg.API.AttemptBudget),
		rest.WithBackoff(cfg.API.RetryBackoff, cfg.API.BackoffCap),
		rest.WithRetryHook(c.metrics.HTTPRetries.Inc),
	)

	c.dispatcher = dispatch.NewDispatcher(c.logger.With("component", "dispatch"))
	c.dispatcher.OnFault = func(string) { c.metrics.HandlerFaults.Inc() }

	c.tracker = gateway.NewTracker()
	c.gw = gateway.New(gateway.Config{
		URL:                cfg.Gateway.URL,
		Token:              cfg.Token,
		HeartbeatInterval:  cfg.Gateway.HeartbeatInterval,
		AuthTimeout:        cfg.Gateway.AuthTimeout,
		HandshakeTimeout:   cfg.Gateway.HandshakeTimeout,
		WriteTimeout:       cfg.Gateway.WriteTimeout,
		ReconnectBaseDelay: cfg.Gateway.ReconnectBaseDelay,
		ReconnectMaxDelay:  cfg.Gateway.ReconnectMaxDelay,
	}, c.tracker, c.dispatchFrame, c.logger.With("component", "gateway"))

	c.gw.OnStateChange(func(s gateway.State) {
		c.metrics.ConnectionState.Set(float64(s))
		if s == gateway.StateReconnecting {
			c.metrics.Reconnects.Inc()
		}
	})

	return c, nil
}

// Handle registers the primary handler for an event name ("message",
// "ready", "reaction_add", ...). At most one primary handler per name.
func (c *Client) Handle(event string, h dispatch.Handler) error {
	return c.dispatcher.Register(event, h)
}

// Listen adds an additional listener for an event name. Unlike Handle,
// multiple listeners can be registered for the same event.
func (c *Client) Listen(event string, h dispatch.Handler) {
	c.dispatcher.Listen(event, h)
}

// Start connects to the gateway and returns once the session is ready.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()
	return c.gw.Start(ctx)
}

// Run starts the client and blocks until the context is cancelled or
// the connection terminates.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Start(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-c.gw.Done():
	}
	c.Close()
	return c.gw.Err()
}

// Close shuts the gateway connection down and drops tracked
// subscriptions.
func (c *Client) Close() {
	c.gw.Stop()
	c.tracker.Clear()
}

// UserID returns the bot's own user id, populated from the ready event.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// State returns the gateway connection state.
func (c *Client) State() gateway.State { return c.gw.State() }

// REST returns the underlying REST client for endpoints without a
// convenience wrapper.
func (c *Client) REST() *rest.Client { return c.api }

// Metrics returns the client's Prometheus metric set.
func (c *Client) Metrics() *metric.Metrics { return c.metrics }

// SubscribeChannel subscribes to channel events (messages, typing,
// reactions). The intent is tracked and replayed after reconnects; if
// the gateway is not currently connected only the intent is recorded.
func (c *Client) SubscribeChannel(channelID string) error {
	c.tracker.Subscribe(gateway.KindChannel, channelID)
	return c.sendSubscription(gateway.SubscribeFrame(gateway.KindChannel, channelID))
}

// UnsubscribeChannel unsubscribes from channel events.
func (c *Client) UnsubscribeChannel(channelID string) error {
	c.tracker.Unsubscribe(gateway.KindChannel, channelID)
	return c.sendSubscription(gateway.UnsubscribeFrame(gateway.KindChannel, channelID))
}

// SubscribeSpace subscribes to space events (members, roles, channels).
func (c *Client) SubscribeSpace(spaceID string) error {
	c.tracker.Subscribe(gateway.KindSpace, spaceID)
	return c.sendSubscription(gateway.SubscribeFrame(gateway.KindSpace, spaceID))
}

// UnsubscribeSpace unsubscribes from space events.
func (c *Client) UnsubscribeSpace(spaceID string) error {
	c.tracker.Unsubscribe(gateway.KindSpace, spaceID)
	return c.sendSubscription(gateway.UnsubscribeFrame(gateway.KindSpace, spaceID))
}

// sendSubscription sends a subscription frame, treating "not connected"
// as success: the tracker already reflects intent, and the connection
// reconciles wire state during replay.
func (c *Client) sendSubscription(frame gateway.Frame) error {
	err := c.gw.Send(frame)
	if errors.Is(err, gateway.ErrNotConnected) {
		return nil
	}
	return err
}

// SendTyping sends a single typing indicator for a channel.
func (c *Client) SendTyping(channelID string) error {
	return c.gw.Send(gateway.TypingFrame(channelID))
}

// dispatchFrame is invoked by the gateway for each inbound event, in
// arrival order.
func (c *Client) dispatchFrame(eventType string, data json.RawMessage) {
	c.metrics.EventsReceived.WithLabelValues(eventType).Inc()

	if eventType == "ready" {
		var ready struct {
			UserID string `json:"user_id"`
		}
		json.Unmarshal(data, &ready)
		c.mu.Lock()
		c.userID = ready.UserID
		c.mu.Unlock()
	}

	ev, err := c.decoder.Decode(eventType, data)
	if err != nil {
		c.logger.Warn("event decode failed, delivering raw payload",
			"type", eventType,
			"error", err,
		)
		ev = model.RawMap(data)
	}

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	c.dispatcher.Dispatch(ctx, dispatch.HandlerKey(eventType), ev)
}

// FetchSpaces fetches all spaces the bot is a member of.
func (c *Client) FetchSpaces(ctx context.Context) ([]model.Space, error) {
	return c.api.GetSpaces(ctx)
}

// FetchSpace fetches a single space by id.
func (c *Client) FetchSpace(ctx context.Context, spaceID string) (*model.Space, error) {
	return c.api.GetSpace(ctx, spaceID)
}

// FetchChannels fetches all channels in a space.
func (c *Client) FetchChannels(ctx context.Context, spaceID string) ([]model.Channel, error) {
	return c.api.GetChannels(ctx, spaceID)
}

// FetchMembers fetches all members in a space.
func (c *Client) FetchMembers(ctx context.Context, spaceID string) ([]model.Member, error) {
	return c.api.GetMembers(ctx, spaceID)
}

// FetchRoles fetches all roles in a space.
func (c *Client) FetchRoles(ctx context.Context, spaceID string) ([]model.Role, error) {
	return c.api.GetRoles(ctx, spaceID)
}

// FetchCategories fetches all channel categories in a space.
func (c *Client) FetchCategories(ctx context.Context, spaceID string) ([]model.ChannelCategory, error) {
	return c.api.GetCategories(ctx, spaceID)
}

// FetchEmojis fetches the custom emojis in a space.
func (c *Client) FetchEmojis(ctx context.Context, spaceID string) ([]model.CustomEmoji, error) {
	return c.api.GetEmojis(ctx, spaceID)
}

// FetchInvites fetches the invites for a space.
func (c *Client) FetchInvites(ctx context.Context, spaceID string) ([]model.Invite, error) {
	return c.api.GetInvites(ctx, spaceID)
}

// CreateInvite creates an invite for a space.
func (c *Client) CreateInvite(ctx context.Context, spaceID string, opts rest.CreateInviteOptions) (*model.Invite, error) {
	return c.api.CreateInvite(ctx, spaceID, opts)
}

// FetchMessages fetches messages from a channel.
func (c *Client) FetchMessages(ctx context.Context, spaceID, channelID string, opts rest.GetMessagesOptions) ([]model.Message, error) {
	return c.api.GetMessages(ctx, spaceID, channelID, opts)
}

// SendMessage sends a message to a channel.
func (c *Client) SendMessage(ctx context.Context, spaceID, channelID, content string) (*model.Message, error) {
	return c.api.SendMessage(ctx, spaceID, channelID, content, rest.SendMessageOptions{})
}

// Reply sends a message replying to another message.
func (c *Client) Reply(ctx context.Context, spaceID, channelID, replyTo, content string) (*model.Message, error) {
	return c.api.SendMessage(ctx, spaceID, channelID, content, rest.SendMessageOptions{ReplyTo: replyTo})
}

// EditMessage edits a message.
func (c *Client) EditMessage(ctx context.Context, spaceID, channelID, messageID, content string) (*model.Message, error) {
	return c.api.EditMessage(ctx, spaceID, channelID, messageID, content)
}

// DeleteMessage deletes a message.
func (c *Client) DeleteMessage(ctx context.Context, spaceID, channelID, messageID string) error {
	return c.api.DeleteMessage(ctx, spaceID, channelID, messageID)
}

// AddReaction adds a reaction to a message.
func (c *Client) AddReaction(ctx context.Context, spaceID, channelID, messageID, emoji string) error {
	return c.api.AddReaction(ctx, spaceID, channelID, messageID, emoji)
}

// RemoveReaction removes a reaction from a message.
func (c *Client) RemoveReaction(ctx context.Context, spaceID, channelID, messageID, emoji string) error {
	return c.api.RemoveReaction(ctx, spaceID, channelID, messageID, emoji)
}
