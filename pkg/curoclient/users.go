package curoclient

import (
	"context"
	"net/http"
	"net/url"
)

type User struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// GetUsers lists users. Each attribute is sent as its own attributes
// parameter; none means all fields.
func (c *Client) GetUsers(ctx context.Context, attributes ...string) ([]User, error) {
	return c.GetGroupUsers(ctx, "", attributes...)
}

func (c *Client) GetGroupUsers(ctx context.Context, groupID string, attributes ...string) ([]User, error) {
	q := url.Values{}
	for _, a := range attributes {
		q.Add("attributes", a)
	}
	if groupID != "" {
		q.Set("groupId", groupID)
	}
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
