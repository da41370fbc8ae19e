package rest

import (
	"context"
	"fmt"

	"github.com/starforge/scatter-go/model"
)

// GetMembers fetches all members in a space.
func (c *Client) GetMembers(ctx context.Context, spaceID string) ([]model.Member, error) {
	var members []model.Member
	if err := c.get(ctx, "/spaces/"+spaceID+"/members", nil, &members); err != nil {
		return nil, fmt.Errorf("get members: %w", err)
	}
	return members, nil
}

// SetMemberRoles replaces the role set of a member.
func (c *Client) SetMemberRoles(ctx context.Context, spaceID, userID string, roleIDs []string) error {
	body := struct {
		RoleIDs []string `json:"role_ids"`
	}{RoleIDs: roleIDs}
	if err := c.put(ctx, "/spaces/"+spaceID+"/members/"+userID+"/roles", body, nil); err != nil {
		return fmt.Errorf("set member roles: %w", err)
	}
	return nil
}

// KickMember removes a member from a space.
func (c *Client) KickMember(ctx context.Context, spaceID, userID string) error {
	if err := c.del(ctx, "/spaces/"+spaceID+"/members/"+userID); err != nil {
		return fmt.Errorf("kick member: %w", err)
	}
	return nil
}
