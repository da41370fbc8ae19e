package rest

import (
	"context"
	"fmt"

	"github.com/starforge/scatter-go/model"
)

// CreateChannelOptions are the optional fields for CreateChannel.
type CreateChannelOptions struct {
	Topic      string
	CategoryID string
	// ChannelType defaults to "text".
	ChannelType string
}

// ChannelPatch holds the fields to change on a channel. Nil fields are
// left untouched.
type ChannelPatch struct {
	Name       *string `json:"name,omitempty"`
	Topic      *string `json:"topic,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	Position   *int    `json:"position,omitempty"`
}

// GetChannels fetches all channels in a space.
func (c *Client) GetChannels(ctx context.Context, spaceID string) ([]model.Channel, error) {
	var channels []model.Channel
	if err := c.get(ctx, "/spaces/"+spaceID+"/channels", nil, &channels); err != nil {
		return nil, fmt.Errorf("get channels: %w", err)
	}
	return channels, nil
}

// CreateChannel creates a channel in a space.
func (c *Client) CreateChannel(ctx context.Context, spaceID, name string, opts CreateChannelOptions) (*model.Channel, error) {
	channelType := opts.ChannelType
	if channelType == "" {
		channelType = "text"
	}
	body := struct {
		Name        string `json:"name"`
		ChannelType string `json:"channel_type"`
		Topic       string `json:"topic,omitempty"`
		CategoryID  string `json:"category_id,omitempty"`
	}{
		Name:        name,
		ChannelType: channelType,
		Topic:       opts.Topic,
		CategoryID:  opts.CategoryID,
	}

	var channel model.Channel
	if err := c.post(ctx, "/spaces/"+spaceID+"/channels", body, &channel); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	return &channel, nil
}

// UpdateChannel applies a partial update to a channel.
func (c *Client) UpdateChannel(ctx context.Context, spaceID, channelID string, patch ChannelPatch) (*model.Channel, error) {
	var channel model.Channel
	if err := c.patch(ctx, "/spaces/"+spaceID+"/channels/"+channelID, patch, &channel); err != nil {
		return nil, fmt.Errorf("update channel: %w", err)
	}
	return &channel, nil
}

// DeleteChannel deletes a channel.
func (c *Client) DeleteChannel(ctx context.Context, spaceID, channelID string) error {
	if err := c.del(ctx, "/spaces/"+spaceID+"/channels/"+channelID); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}
