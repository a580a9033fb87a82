package user

import "context"

type Repository interface {
	// List returns users ordered by id.
	List(ctx context.Context, f Filter) ([]*User, error)
	Get(ctx context.Context, id string) (*User, error)
	// CheckPassword reports whether password is valid for the user. Unknown
	// users are not an error.
	CheckPassword(ctx context.Context, id, password string) (bool, error)
	// Groups returns the groups the user is a member of.
	Groups(ctx context.Context, userID string) ([]*Group, error)
}
