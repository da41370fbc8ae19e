package rest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/starforge/scatter-go/model"
)

// GetMessagesOptions control message pagination.
type GetMessagesOptions struct {
	Before string // Return messages before this message id
	Limit  int    // Max messages to return (0 = server default)
}

// SendMessageOptions are the optional fields for SendMessage.
type SendMessageOptions struct {
	ReplyTo       string
	AttachmentIDs []string
}

func channelPath(spaceID, channelID string) string {
	return "/spaces/" + spaceID + "/channels/" + channelID
}

// GetMessages fetches messages from a channel, newest first.
func (c *Client) GetMessages(ctx context.Context, spaceID, channelID string, opts GetMessagesOptions) ([]model.Message, error) {
	query := url.Values{}
	if opts.Before != "" {
		query.Set("before", opts.Before)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var messages []model.Message
	if err := c.get(ctx, channelPath(spaceID, channelID)+"/messages", query, &messages); err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	return messages, nil
}

// SendMessage posts a message to a channel.
func (c *Client) SendMessage(ctx context.Context, spaceID, channelID, content string, opts SendMessageOptions) (*model.Message, error) {
	body := struct {
		Content       string   `json:"content"`
		ReplyTo       string   `json:"reply_to,omitempty"`
		AttachmentIDs []string `json:"attachment_ids,omitempty"`
	}{
		Content:       content,
		ReplyTo:       opts.ReplyTo,
		AttachmentIDs: opts.AttachmentIDs,
	}

	var msg model.Message
	if err := c.post(ctx, channelPath(spaceID, channelID)+"/messages", body, &msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &msg, nil
}

// EditMessage replaces the content of a message.
func (c *Client) EditMessage(ctx context.Context, spaceID, channelID, messageID, content string) (*model.Message, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	var msg model.Message
	if err := c.patch(ctx, channelPath(spaceID, channelID)+"/messages/"+messageID, body, &msg); err != nil {
		return nil, fmt.Errorf("edit message: %w", err)
	}
	return &msg, nil
}

// DeleteMessage deletes a message.
func (c *Client) DeleteMessage(ctx context.Context, spaceID, channelID, messageID string) error {
	if err := c.del(ctx, channelPath(spaceID, channelID)+"/messages/"+messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// AddReaction adds an emoji reaction to a message.
func (c *Client) AddReaction(ctx context.Context, spaceID, channelID, messageID, emoji string) error {
	path := channelPath(spaceID, channelID) + "/messages/" + messageID + "/reactions/" + url.PathEscape(emoji)
	if err := c.put(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("add reaction: %w", err)
	}
	return nil
}

// RemoveReaction removes the bot's emoji reaction from a message.
func (c *Client) RemoveReaction(ctx context.Context, spaceID, channelID, messageID, emoji string) error {
	path := channelPath(spaceID, channelID) + "/messages/" + messageID + "/reactions/" + url.PathEscape(emoji)
	if err := c.del(ctx, path); err != nil {
		return fmt.Errorf("remove reaction: %w", err)
	}
	return nil
}

// GetPins fetches the pinned messages in a channel.
func (c *Client) GetPins(ctx context.Context, spaceID, channelID string) ([]model.Message, error) {
	var messages []model.Message
	if err := c.get(ctx, channelPath(spaceID, channelID)+"/pins", nil, &messages); err != nil {
		return nil, fmt.Errorf("get pins: %w", err)
	}
	return messages, nil
}

// PinMessage pins a message in its channel.
func (c *Client) PinMessage(ctx context.Context, spaceID, channelID, messageID string) error {
	if err := c.put(ctx, channelPath(spaceID, channelID)+"/pins/"+messageID, nil, nil); err != nil {
		return fmt.Errorf("pin message: %w", err)
	}
	return nil
}

// UnpinMessage removes a pin.
func (c *Client) UnpinMessage(ctx context.Context, spaceID, channelID, messageID string) error {
	if err := c.del(ctx, channelPath(spaceID, channelID)+"/pins/"+messageID); err != nil {
		return fmt.Errorf("unpin message: %w", err)
	}
	return nil
}
