package rest

import (
	"context"
	"fmt"

	"github.com/starforge/scatter-go/model"
)

// GetSpaces fetches all spaces the bot is a member of.
func (c *Client) GetSpaces(ctx context.Context) ([]model.Space, error) {
	var spaces []model.Space
	if err := c.get(ctx, "/spaces/me", nil, &spaces); err != nil {
		return nil, fmt.Errorf("get spaces: %w", err)
	}
	return spaces, nil
}

// GetSpace fetches a single space. Sub-resources are not included; use
// the channel/member/role endpoints to load them on demand.
func (c *Client) GetSpace(ctx context.Context, spaceID string) (*model.Space, error) {
	var space model.Space
	if err := c.get(ctx, "/spaces/"+spaceID, nil, &space); err != nil {
		return nil, fmt.Errorf("get space %s: %w", spaceID, err)
	}
	return &space, nil
}

// GetCategories fetches the channel categories in a space.
func (c *Client) GetCategories(ctx context.Context, spaceID string) ([]model.ChannelCategory, error) {
	var cats []model.ChannelCategory
	if err := c.get(ctx, "/spaces/"+spaceID+"/categories", nil, &cats); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return cats, nil
}

// GetEmojis fetches the custom emojis in a space.
func (c *Client) GetEmojis(ctx context.Context, spaceID string) ([]model.CustomEmoji, error) {
	var emojis []model.CustomEmoji
	if err := c.get(ctx, "/spaces/"+spaceID+"/emojis", nil, &emojis); err != nil {
		return nil, fmt.Errorf("get emojis: %w", err)
	}
	return emojis, nil
}
