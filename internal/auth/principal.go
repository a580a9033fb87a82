package auth

import (
	"context"

	"github.com/curo-bpm/curo/pkg/cerr"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Groups []string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequirePrincipal returns the principal or an Unauthenticated error.
func RequirePrincipal(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok || p.UserID == "" {
		return Principal{}, cerr.NewError(cerr.Unauthenticated, "authentication required", nil)
	}
	return p, nil
}
