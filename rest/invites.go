package rest

import (
	"context"
	"fmt"

	"github.com/starforge/scatter-go/model"
)

// CreateInviteOptions are the optional fields for CreateInvite.
type CreateInviteOptions struct {
	MaxUses          *int
	ExpiresInSeconds *int
}

// GetInvites fetches the invites for a space.
func (c *Client) GetInvites(ctx context.Context, spaceID string) ([]model.Invite, error) {
	var invites []model.Invite
	if err := c.get(ctx, "/spaces/"+spaceID+"/invites", nil, &invites); err != nil {
		return nil, fmt.Errorf("get invites: %w", err)
	}
	return invites, nil
}

// CreateInvite creates an invite for a space.
func (c *Client) CreateInvite(ctx context.Context, spaceID string, opts CreateInviteOptions) (*model.Invite, error) {
	body := struct {
		MaxUses          *int `json:"max_uses,omitempty"`
		ExpiresInSeconds *int `json:"expires_in_seconds,omitempty"`
	}{
		MaxUses:          opts.MaxUses,
		ExpiresInSeconds: opts.ExpiresInSeconds,
	}

	var invite model.Invite
	if err := c.post(ctx, "/spaces/"+spaceID+"/invites", body, &invite); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}
	return &invite, nil
}
