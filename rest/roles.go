package rest

import (
	"context"
	"fmt"

	"github.com/starforge/scatter-go/model"
)

// CreateRoleOptions are the optional fields for CreateRole.
type CreateRoleOptions struct {
	Color *int
	Hoist *bool
}

// RolePatch holds the fields to change on a role. Nil fields are left
// untouched.
type RolePatch struct {
	Name     *string `json:"name,omitempty"`
	Color    *int    `json:"color,omitempty"`
	Position *int    `json:"position,omitempty"`
	Hoist    *bool   `json:"hoist,omitempty"`
}

// GetRoles fetches all roles in a space.
func (c *Client) GetRoles(ctx context.Context, spaceID string) ([]model.Role, error) {
	var roles []model.Role
	if err := c.get(ctx, "/spaces/"+spaceID+"/roles", nil, &roles); err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	return roles, nil
}

// CreateRole creates a role in a space.
func (c *Client) CreateRole(ctx context.Context, spaceID, name string, opts CreateRoleOptions) (*model.Role, error) {
	body := struct {
		Name  string `json:"name"`
		Color *int   `json:"color,omitempty"`
		Hoist *bool  `json:"hoist,omitempty"`
	}{
		Name:  name,
		Color: opts.Color,
		Hoist: opts.Hoist,
	}

	var role model.Role
	if err := c.post(ctx, "/spaces/"+spaceID+"/roles", body, &role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return &role, nil
}

// UpdateRole applies a partial update to a role.
func (c *Client) UpdateRole(ctx context.Context, spaceID, roleID string, patch RolePatch) (*model.Role, error) {
	var role model.Role
	if err := c.patch(ctx, "/spaces/"+spaceID+"/roles/"+roleID, patch, &role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return &role, nil
}

// DeleteRole deletes a role.
func (c *Client) DeleteRole(ctx context.Context, spaceID, roleID string) error {
	if err := c.del(ctx, "/spaces/"+spaceID+"/roles/"+roleID); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}
