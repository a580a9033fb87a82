package permission

import "context"

type Repository interface {
	// Grants returns the authorization rows of the user, of its groups and
	// the global rows.
	Grants(ctx context.Context, userID string, groups []string) ([]*Grant, error)
}
