package curoclient

import (
	"context"
	"net/http"
)

// PermissionRequest maps a scope ("*" or a resource id) to resource types and
// requested actions ("*" for all).
type PermissionRequest map[string]map[string][]string

type Permissions struct {
	UserID          string            `json:"userId"`
	Groups          []string          `json:"groups"`
	Permissions     PermissionRequest `json:"permissions"`
	CuroPermissions map[string]bool   `json:"curoPermissions"`
}

func (c *Client) LoginType(ctx context.Context) (string, error) {
	var loginType string
	if err := c.do(ctx, http.MethodGet, "/auth/loginType", nil, nil, &loginType); err != nil {
		return "", err
	}
	return loginType, nil
}

// ConfirmAuthSuccess tells the server a login completed.
func (c *Client) ConfirmAuthSuccess(ctx context.Context) (map[string]any, error) {
	ack := map[string]any{}
	if err := c.do(ctx, http.MethodPost, "/auth/success", nil, nil, &ack); err != nil {
		return nil, err
	}
	return ack, nil
}

// LoadPermissions posts req unchanged and returns the resolved permissions of
// the current principal.
func (c *Client) LoadPermissions(ctx context.Context, req PermissionRequest, opts ...RequestOption) (*Permissions, error) {
	var p Permissions
	if err := c.do(ctx, http.MethodPost, "/auth/permissions", nil, req, &p, opts...); err != nil {
		return nil, err
	}
	return &p, nil
}
